package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/api"
)

var (
	authorsLimit int
	authorWorks  bool
)

func init() {
	authorsCmd.Flags().IntVar(&authorsLimit, "limit", 25, "Maximum authors to return")
	authorsCmd.Flags().BoolVar(&authorWorks, "works", false, "Treat the argument as an author ID and list their works")
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors <name|id>",
	Short: "Search authors, or list an author's works",
	Long: `Search authors by name. With --works the argument is an author ID and
the author's works are listed instead.

Examples:
  ethnos authors "Darcy Ribeiro"
  ethnos authors 987 --works --human`,
	Args: cobra.ExactArgs(1),
	Run:  runAuthors,
}

func runAuthors(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()
	ctx := context.Background()

	if authorWorks {
		resp, err := a.client.GetAuthorWorks(ctx, args[0], authorsLimit, 0)
		if err != nil {
			exitWithError(ExitAPIError, "fetching author works: %v", err)
		}
		r := &cliRenderer{}
		r.Results(resp, api.SearchParams{Page: 1, PerPage: authorsLimit})
		return
	}

	resp, err := a.client.SearchAuthors(ctx, args[0], authorsLimit)
	if err != nil {
		exitWithError(ExitAPIError, "searching authors: %v", err)
	}

	if !humanOutput {
		outputJSON(resp)
		return
	}
	if len(resp.Data) == 0 {
		outputHuman("Nenhum autor encontrado\n")
		return
	}
	for _, author := range resp.Data {
		outputHuman("[%s] %s", author.ID.String(), author.Name)
		if author.ORCID != "" {
			outputHuman(" (ORCID %s)", author.ORCID)
		}
		if author.WorkCount > 0 {
			outputHuman(" · %d trabalhos", author.WorkCount)
		}
		outputHuman("\n")
	}
}
