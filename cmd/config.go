// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/spatial"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix scopes environment variables: FRA_BASE_URL configures --base-url.
const envPrefix = "FRA"

// Config is the resolved configuration, from flags, environment and .env
// in decreasing precedence.
type Config struct {
	BaseURL       string        `mapstructure:"base-url"`
	UserAgent     string        `mapstructure:"user-agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RateLimit     float64       `mapstructure:"rate-limit"`
	CRS           string        `mapstructure:"crs"`
	Lang          string        `mapstructure:"lang"`
	LogLevel      string        `mapstructure:"log-level"`
	LogFormat     string        `mapstructure:"log-format"`
	TraceHTTP     bool          `mapstructure:"trace-http"`
	TraceHTTPBody bool          `mapstructure:"trace-http-body"`
}

// loadConfig resolves the configuration for cmd. A missing .env file is not
// an error.
func loadConfig(cmd *cobra.Command, envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("base-url", adresse.DefaultBaseURL)
	v.SetDefault("user-agent", adresse.DefaultUserAgent)
	v.SetDefault("timeout", adresse.DefaultTimeout)
	v.SetDefault("rate-limit", 0)
	v.SetDefault("crs", spatial.WGS84.AuthID())
	v.SetDefault("lang", os.Getenv("LANG"))
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, errors.New("base-url is required"))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate-limit must not be negative, got %v", c.RateLimit))
	}

	if _, err := spatial.LookupCRS(c.CRS); err != nil {
		errs = append(errs, err)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log-format must be text or json, got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

// ProjectCRS returns the configured reference system.
func (c *Config) ProjectCRS() spatial.CRS {
	crs, err := spatial.LookupCRS(c.CRS)
	if err != nil {
		return spatial.WGS84
	}

	return crs
}

// ClientOptions maps the configuration to API client options.
func (c *Config) ClientOptions() *adresse.Options {
	return &adresse.Options{
		BaseURL:             c.BaseURL,
		UserAgent:           c.UserAgent,
		Timeout:             c.Timeout,
		RateLimit:           c.RateLimit,
		EnableHTTPTrace:     c.TraceHTTP,
		EnableHTTPBodyTrace: c.TraceHTTPBody,
	}
}

// configureLogging sets up the standard logrus logger on stderr.
func (c *Config) configureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}

	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

		return
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}
