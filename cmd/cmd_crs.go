// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/fralocator/fralocator/spatial"
	"github.com/spf13/cobra"
)

var crsCmd = &cobra.Command{
	Use:   "crs",
	Short: "Lists the supported reference systems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		a, b, c := strings.Repeat("─", 10), strings.Repeat("─", 26), strings.Repeat("─", 7)
		fmt.Fprintf(out, "╭─%-10s─┬─%-26s─┬─%-7s─╮\n", a, b, c)
		fmt.Fprintf(out, "│ %-10s │ %-26s │ %-7s │\n", "Id", "Name", "Units")
		fmt.Fprintf(out, "├─%-10s─┼─%-26s─┼─%-7s─┤\n", a, b, c)

		for _, crs := range spatial.Supported() {
			units := "metres"
			if crs.Geographic {
				units = "degrees"
			}

			fmt.Fprintf(out, "│ %-10s │ %-26s │ %-7s │\n", crs.AuthID(), crs.Name, units)
		}

		fmt.Fprintf(out, "╰─%-10s─┴─%-26s─┴─%-7s─╯\n", a, b, c)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(crsCmd)
}
