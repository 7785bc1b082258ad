// Package main provides the entry point for the TalentScout hiring assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hiring_assistant",
	Short: "TalentScout AI hiring assistant",
	Long: "Screens technology candidates in a guided conversation: consent, profile collection, " +
		"tech stack declaration and generated technical questions. Runs in the terminal or as an HTTP/WebSocket service.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
