// Package cmd contains the CLI commands for the bkit-guide service.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bkit-guide",
	Short: "bkit-guide - documentation chatbot service for the bkit plugin",
	Long: `bkit-guide answers questions about the bkit Claude Code plugin.

It retrieves context from the synced official documentation and a
crowdsourced Q&A archive, falls back to web search when retrieval is weak,
and streams answers from the model over SSE.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
