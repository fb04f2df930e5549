package main

import (
	"github.com/spf13/cobra"
)

var hotspotsLimit int

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "Show risk hotspots",
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

		analysis := result.Hotspots
		if hotspotsLimit > 0 && len(analysis.Hotspots) > hotspotsLimit {
			trimmed := *analysis
			trimmed.Hotspots = analysis.Hotspots[:hotspotsLimit]
			analysis = &trimmed
		}

		if jsonFlag {
			return printJSON(cmd.OutOrStdout(), analysis)
		}
		printHotspots(cmd.OutOrStdout(), analysis)
		return nil
	},
}

func init() {
	hotspotsCmd.Flags().IntVarP(&hotspotsLimit, "limit", "n", 10, "maximum hotspots to show (0 = all)")
	rootCmd.AddCommand(hotspotsCmd)
}
