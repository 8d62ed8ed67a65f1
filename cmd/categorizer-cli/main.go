package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yashubustudio/questioncategorizer/categorizer"
)

var rootCmd = &cobra.Command{
	Use:           "categorizer-cli",
	Short:         "Categorize questions from spreadsheets against a remote classifier",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

var (
	configPath string
	endpoint   string
	logLevel   string
	timeout    int

	// Resolved in setup.
	config categorizer.Config
	logger zerolog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.json (default: ./config.json)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Categorization endpoint (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", -1, "Request timeout in seconds, 0 for none (overrides config)")

	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "categorizer-cli: %v\n", err)
		os.Exit(1)
	}
}

func setup() error {
	cfg, err := categorizer.LoadConfig(strings.TrimSpace(configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	config = cfg
	logger = categorizer.NewLogger(cfg.LogLevel, os.Stderr)
	logger.Debug().
		Str("endpoint", cfg.Endpoint).
		Int("timeout_seconds", cfg.TimeoutSeconds).
		Bool("reconcile", cfg.ReconcileByText).
		Msg("configuration resolved")
	return nil
}

func applyFlagOverrides(cfg *categorizer.Config) {
	if v := strings.TrimSpace(endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(logLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if timeout >= 0 {
		cfg.TimeoutSeconds = timeout
	}
}
