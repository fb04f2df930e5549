package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline",
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

		if analyzeOutput != "" {
			if err := exportResult(analyzeOutput, result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "results written to %s\n", analyzeOutput)
		}
		if jsonFlag {
			return printJSON(cmd.OutOrStdout(), result)
		}
		printSummary(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write full results to a .json/.yaml file (.gz supported)")
	rootCmd.AddCommand(analyzeCmd)
}
