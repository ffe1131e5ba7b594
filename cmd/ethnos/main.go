// Package main provides the ethnos CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ethnos",
	Short: "Client for the Ethnos academic literature database",
	Long: `ethnos is a CLI client for the Ethnos academic literature database
(ethnos.app).

Core features:
  - Works search with autocomplete suggestions and pagination
  - A personal reading list persisted locally
  - Reference export: ABNT, BibTeX, RIS, and structured JSON
  - Venue and author browsing
  - Response caching with explicit cache management

All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
