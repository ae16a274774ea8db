// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/canvas"
	"github.com/fralocator/fralocator/i18n"
	"github.com/fralocator/fralocator/locator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfg     *Config
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "fra",
	Short: "French address locator",
	Long: `
fra geocodes French addresses with the national address database API
(api-adresse.data.gouv.fr): search for an address, find the address at a
point, or run a local map host.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error

		cfg, err = loadConfig(cmd, envFile)
		if err != nil {
			return err
		}

		cfg.configureLogging()

		return nil
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// session is a headless host with the plugin loaded.
type session struct {
	host     *canvas.Host
	registry *locator.Registry
	plugin   *locator.Plugin
}

func newSession() (*session, error) {
	options := cfg.ClientOptions()
	if options.UserAgent == adresse.DefaultUserAgent {
		options.UserAgent = fmt.Sprintf("%s fra/%s", adresse.DefaultUserAgent, Version)
	}

	host := canvas.NewHost(&canvas.Options{CRS: cfg.ProjectCRS()})
	registry := locator.NewRegistry()

	plugin, err := locator.NewPlugin(host, adresse.NewClient(options), registry, i18n.New(cfg.Lang))
	if err != nil {
		return nil, err
	}

	return &session{host: host, registry: registry, plugin: plugin}, nil
}

// addConfigFlags declares the flags bound to Config.
func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("base-url", adresse.DefaultBaseURL, "Address API base URL")
	flags.String("user-agent", adresse.DefaultUserAgent, "User-Agent sent to the API")
	flags.Duration("timeout", adresse.DefaultTimeout, "HTTP request timeout")
	flags.Float64("rate-limit", 0, "Maximum API requests per second, 0 for unlimited")
	flags.String("crs", "EPSG:4326", "Project reference system")
	flags.String("lang", "", "UI language, defaults to $LANG")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.Bool("trace-http", false, "Display HTTP requests-responses")
	flags.Bool("trace-http-body", false, "Display HTTP requests-responses bodies")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded when present")
	addConfigFlags(rootCmd.PersistentFlags())
}
