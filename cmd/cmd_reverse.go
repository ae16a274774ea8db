// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/fralocator/fralocator/spatial"
	"github.com/spf13/cobra"
)

var reverseOptions struct {
	x, y float64
}

var reverseCmd = &cobra.Command{
	Use:   "reverse --x X --y Y",
	Short: "Finds the address at a point",
	Long: `
Finds the nearest address to a point given in the project reference system
(--crs). The point is clicked on the center of an in-memory map, exactly as
the reverse geocoding tool does.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		s.host.Canvas.SetCenter(spatial.NewPoint(reverseOptions.x, reverseOptions.y, cfg.ProjectCRS()))

		dock := s.plugin.Run()
		dock.SetClickMode(true)
		defer s.plugin.Close()

		view := s.host.Canvas.View()
		if err := dock.Tool().Reverse(cmd.Context(), view.Width/2, view.Height/2); err != nil {
			return fmt.Errorf("reverse failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), dock.Address())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reverseCmd)
	reverseCmd.Flags().Float64Var(&reverseOptions.x, "x", 0, "X coordinate in the project reference system (--crs)")
	reverseCmd.Flags().Float64Var(&reverseOptions.y, "y", 0, "Y coordinate in the project reference system (--crs)")
	_ = reverseCmd.MarkFlagRequired("x")
	_ = reverseCmd.MarkFlagRequired("y")
}
