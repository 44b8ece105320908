// Package main is cvctl, a command line front end for one-shot CV generation,
// refinement, rating and export.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvctl",
	Short: "CV Architect command line tool",
	Long:  "cvctl turns raw personal notes into styled HTML CVs with Gemini, refines and rates them, and exports them to PDF.",
}

var apiKeyFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
