// Package cmd implements the prepsched command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "prepsched",
	Short: "Interview preparation scheduling service",
	Long: `prepsched computes non-overlapping preparation blocks around
existing calendar events, spreading a target number of hours across the
days before an upcoming event.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
