// Package cmd implements the CLI commands for the marketly server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "marketlyd",
	Short: "Unified marketplace search server",
	Long: "An API-first service that searches multiple marketplaces (eBay, Kijiji) " +
		"concurrently, scores listings for relevance, and serves ranked, cached results.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
