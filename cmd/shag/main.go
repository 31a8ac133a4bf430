package main

import (
	"os"

	"github.com/shagtracker/shagbot/cmd/shag/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shag",
		Short: "Operations tools for shagbot",
	}

	rootCmd.AddCommand(cmd.SweepCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
