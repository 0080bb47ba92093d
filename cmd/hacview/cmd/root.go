package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hacview",
	Short: "Inspect a Home Access Center account from the command line.",
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config", "hacview.json5",
		"path to a config file",
	)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
