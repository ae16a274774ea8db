// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/fralocator/fralocator/locator"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var batchOptions struct {
	maxProcs int
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Geocodes one query per line read from stdin",
	Long: `
Reads one query per line from stdin and writes a tab separated line per query
with the first candidate: query, label, type, lon, lat. Queries without a
candidate keep empty columns.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		queries, err := readQueries(cmd.InOrStdin())
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(queries),
				progressbar.OptionSetDescription("Geocoding"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		rows, geocodeErr := geocodeBatch(cmd.Context(), s.plugin.Filter(), queries, batchOptions.maxProcs, bar)

		if err := writeTSV(cmd.OutOrStdout(), rows); err != nil {
			return err
		}

		return geocodeErr
	},
}

type batchRow struct {
	query       string
	label       string
	featureType string
	lon, lat    float64
	found       bool
}

func readQueries(r io.Reader) ([]string, error) {
	var queries []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if q := strings.TrimSpace(sc.Text()); q != "" {
			queries = append(queries, q)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}

	return queries, nil
}

// geocodeBatch runs the queries on up to maxProcs clones of filter. Rows keep
// the order of queries.
func geocodeBatch(
	ctx context.Context,
	filter locator.Filter,
	queries []string,
	maxProcs int,
	bar *progressbar.ProgressBar,
) ([]batchRow, error) {
	if maxProcs <= 0 {
		maxProcs = runtime.NumCPU()
	}

	rows := make([]batchRow, len(queries))
	errChan := make(chan error, len(queries))
	semaphore := make(chan struct{}, maxProcs)

	var wg sync.WaitGroup

	for i, q := range queries {
		wg.Add(1)

		go func(i int, q string) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			row := batchRow{query: q}
			feedback := locator.FeedbackFuncs{
				OnResult: func(r locator.Result) {
					if row.found {
						return
					}

					pt := r.UserData.Coordinates()
					row.label = r.UserData.Label()
					row.featureType = r.UserData.Type()
					row.lon, row.lat = pt.Lon(), pt.Lat()
					row.found = true
				},
				OnProblem: func(message string) {
					errChan <- fmt.Errorf("geocoding %q - %s", q, message)
				},
			}

			filter.Clone().FetchResults(ctx, q, feedback)
			rows[i] = row

			if bar == nil {
				logrus.Debugf("Geocoded %s", q)
			} else if err := bar.Add(1); err != nil {
				errChan <- fmt.Errorf("updating progress bar for %q: %w", q, err)
			}
		}(i, q)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	return rows, errors.Join(errs...)
}

func writeTSV(w io.Writer, rows []batchRow) error {
	out := csv.NewWriter(w)
	out.Comma = '\t'

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"query", "label", "type", "lon", "lat"})

	for _, row := range rows {
		record := []string{row.query, "", "", "", ""}
		if row.found {
			record[1] = row.label
			record[2] = row.featureType
			record[3] = strconv.FormatFloat(row.lon, 'f', -1, 64)
			record[4] = strconv.FormatFloat(row.lat, 'f', -1, 64)
		}

		records = append(records, record)
	}

	if err := out.WriteAll(records); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(
		&batchOptions.maxProcs,
		"max-procs",
		4,
		"Max number of concurrent queries. 0 uses the number of CPUs",
	)
}
