// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fralocator/fralocator/server"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveOptions struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs a local map host over HTTP",
	Long: `
Runs an in-memory map canvas with the locator loaded and exposes it over HTTP:
search, result activation, the reverse geocoding tool and Prometheus metrics.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.plugin.Unload()

		if !logrus.IsLevelEnabled(logrus.DebugLevel) {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(s.host, s.registry, s.plugin).Run(ctx, serveOptions.addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveOptions.addr, "addr", "localhost:8080", "Listen address")
}
