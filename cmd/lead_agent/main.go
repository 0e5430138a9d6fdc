// Package main provides the entry point for the Opubliq lead generation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lead_agent",
	Short: "Opubliq lead generation pipeline",
	Long:  "lead_agent collects Quebec public-affairs news, extracts the organizations acting in it, and qualifies them into a weekly ranked list of prospective clients.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
