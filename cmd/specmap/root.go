package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"specmap/internal/config"
	"specmap/internal/logging"
	"specmap/internal/version"
)

var (
	repoFlag      string
	logLevelFlag  string
	logFormatFlag string
	jsonFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "specmap",
	Short: "specmap - requirement-to-code traceability analysis",
	Long: `specmap parses a TypeScript/JavaScript repository and its specification
documents, builds a dependency graph with complexity metrics, links
requirements to the code that implements them, and reports coverage gaps
and risk hotspots.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.SetVersionTemplate("specmap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&repoFlag, "repo", "r", ".", "repository root")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "log format: human, json")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print results as JSON")
}

// loadConfig reads the repo configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(repoFlag)
	if err != nil {
		return nil, err
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  cfg.Logging.Level,
	})
}
