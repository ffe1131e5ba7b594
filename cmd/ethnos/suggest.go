package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/search"
)

var suggestLimit int

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 6, "Maximum suggestions to return")
	rootCmd.AddCommand(suggestCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Autocomplete suggestions for a query prefix",
	Long: `Fetch autocomplete suggestions for a partial query. Queries shorter
than two characters return nothing.

Examples:
  ethnos suggest "etnogr"
  ethnos suggest "antropo" --limit 10 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	r := &cliRenderer{}
	ctrl := search.New(a.client, r,
		search.WithLogger(a.log),
		search.WithSuggestionLimit(suggestLimit),
	)
	ctrl.SuggestNow(context.Background(), args[0])
}
