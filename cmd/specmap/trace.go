package main

import (
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show requirement-to-code traceability links",
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
			return printJSON(cmd.OutOrStdout(), result.Traceability)
		}
		printLinks(cmd.OutOrStdout(), result.Traceability)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
}
