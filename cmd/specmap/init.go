package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"specmap/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .specmap/config.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		cfg.RepoRoot = repoFlag
		if err := cfg.Save(repoFlag); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/.specmap/config.json\n", repoFlag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
