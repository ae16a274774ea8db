// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fralocator/fralocator/locator"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var searchOptions struct {
	pick int
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Searches addresses matching a query",
	Long: `
Prints the candidates for a query as they are received. With --pick, the
chosen candidate is shown on the map: the command prints the resulting
center, in the project reference system, and scale.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		numbered := isTerminal(out)

		var (
			results []locator.Result
			problem string
		)

		feedback := locator.FeedbackFuncs{
			OnResult: func(r locator.Result) {
				results = append(results, r)
				if numbered {
					fmt.Fprintf(out, "%2d. %s\n", len(results), r.DisplayString)
				} else {
					fmt.Fprintln(out, r.DisplayString)
				}
			},
			OnProblem: func(message string) {
				problem = message
				s.plugin.ShowProblem(message)
			},
		}

		s.plugin.Filter().FetchResults(cmd.Context(), strings.Join(args, " "), feedback)

		if problem != "" {
			return fmt.Errorf("search failed: %s", problem)
		}

		if searchOptions.pick == 0 {
			return nil
		}

		if searchOptions.pick < 0 || searchOptions.pick > len(results) {
			return fmt.Errorf("--pick %d out of range, %d candidates", searchOptions.pick, len(results))
		}

		s.plugin.Filter().TriggerResult(results[searchOptions.pick-1])

		view := s.host.Canvas.View()
		fmt.Fprintf(out, "center: %s\nscale: 1:%.0f\n", view.Center, view.Scale)

		return nil
	},
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchOptions.pick, "pick", 0, "Show candidate N (1-based) on the map")
}
