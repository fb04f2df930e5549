package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"specmap/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "specmap version %s\n", version.String())
		if version.BuildDate != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", version.BuildDate)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
