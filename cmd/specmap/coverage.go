package main

import (
	"github.com/spf13/cobra"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show requirement coverage and gaps",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		result, err := runPipeline(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}

		if jsonFlag {
			return printJSON(cmd.OutOrStdout(), result.Coverage)
		}
		printCoverage(cmd.OutOrStdout(), result.Coverage)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coverageCmd)
}
