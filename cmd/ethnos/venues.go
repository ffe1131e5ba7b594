package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/api"
)

var (
	venuesLimit  int
	venuesOffset int
	venuesWorks  bool
)

func init() {
	venuesCmd.Flags().IntVar(&venuesLimit, "limit", 50, "Maximum venues (or venue works) to return")
	venuesCmd.Flags().IntVar(&venuesOffset, "offset", 0, "Listing offset")
	venuesCmd.Flags().BoolVar(&venuesWorks, "works", false, "List the venue's works instead of its record")
	rootCmd.AddCommand(venuesCmd)
}

var venuesCmd = &cobra.Command{
	Use:   "venues [id]",
	Short: "List publication venues or show one venue's record",
	Long: `List the publication venues known to the database, or, given a venue
id, show that venue's full record.

Examples:
  ethnos venues --human
  ethnos venues --limit 20 --offset 40
  ethnos venues 123 --human
  ethnos venues 123 --works`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		if len(args) == 1 {
			runVenueDetail(a, args[0])
			return
		}

		resp, err := a.client.GetVenues(context.Background(), venuesLimit, venuesOffset)
		if err != nil {
			exitWithError(ExitAPIError, "fetching venues: %v", err)
		}

		if !humanOutput {
			outputJSON(resp)
			return
		}
		if len(resp.Data) == 0 {
			outputHuman("Nenhum periódico encontrado\n")
			return
		}
		for _, v := range resp.Data {
			outputHuman("[%s] %s", v.ID.String(), v.Name)
			if v.ISSN != "" {
				outputHuman(" (ISSN %s)", v.ISSN)
			}
			if v.WorkCount > 0 {
				outputHuman(" · %d trabalhos", v.WorkCount)
			}
			outputHuman("\n")
		}
	},
}

func runVenueDetail(a *app, id string) {
	ctx := context.Background()

	if venuesWorks {
		resp, err := a.client.GetVenueWorks(ctx, id, venuesLimit, venuesOffset)
		if err != nil {
			exitWithError(ExitAPIError, "fetching venue works: %v", err)
		}
		r := &cliRenderer{}
		r.Results(resp, api.SearchParams{Page: 1, PerPage: venuesLimit})
		return
	}

	venue, err := a.client.GetVenue(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			exitWithError(ExitNotFound, "venue %s not found", id)
		}
		exitWithError(ExitAPIError, "fetching venue: %v", err)
	}

	if !humanOutput {
		outputJSON(venue)
		return
	}
	outputHuman("%s\n", venue.Name)
	if venue.Type != "" {
		outputHuman("Tipo: %s\n", venue.Type)
	}
	if venue.ISSN != "" {
		outputHuman("ISSN: %s\n", venue.ISSN)
	}
	if venue.EISSN != "" {
		outputHuman("eISSN: %s\n", venue.EISSN)
	}
	if venue.Publisher != "" {
		outputHuman("Editora: %s\n", venue.Publisher)
	}
	if venue.WorksCount > 0 {
		outputHuman("Trabalhos: %d\n", venue.WorksCount)
	}
}
