// Package main provides the sitefinder CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sitefinder",
	Short: "Official event website resolver",
	Long:  "sitefinder resolves the single best-guess official website for a real-world event, distinguishing organizer and venue sites from ticket aggregators and listing pages.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
