package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/api"
	"github.com/ethnosapp/ethnos/internal/work"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get the full record of a work",
	Long: `Fetch the full enriched record of a work by its numeric ID.

Examples:
  ethnos get 12345
  ethnos get 12345 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func runGet(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitWithError(ExitDataError, "invalid work id %q", args[0])
	}

	a := mustApp()
	defer a.Close()

	w, err := a.client.GetWorkDetails(context.Background(), id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			exitWithError(ExitNotFound, "work %d not found", id)
		}
		exitWithError(ExitAPIError, "fetching work %d: %v", id, err)
	}

	if !humanOutput {
		outputJSON(w)
		return
	}
	printWorkHuman(w)
}

func printWorkHuman(w *work.EnrichedWork) {
	title := w.Title
	if w.Subtitle != "" {
		title += ": " + w.Subtitle
	}
	outputHuman("[%d] %s\n", w.ID, title)

	if len(w.Authors) > 0 {
		names := make([]string, 0, len(w.Authors))
		for _, a := range w.Authors {
			names = append(names, a.DisplayName())
		}
		outputHuman("Autores: %s\n", strings.Join(names, "; "))
	}

	var meta []string
	if w.Publication != nil && w.Publication.Year.IsSet() {
		meta = append(meta, w.Publication.Year.String())
	} else if w.Year.IsSet() {
		meta = append(meta, w.Year.String())
	}
	if w.Venue != nil && w.Venue.Name != "" {
		meta = append(meta, w.Venue.Name)
	} else if w.VenueName != "" {
		meta = append(meta, w.VenueName)
	}
	if t := w.WorkType; t != "" {
		meta = append(meta, work.TypeLabel(t))
	} else if w.Type != "" {
		meta = append(meta, work.TypeLabel(w.Type))
	}
	if len(meta) > 0 {
		outputHuman("%s\n", strings.Join(meta, " · "))
	}

	if doi := w.ResolvedDOI(); doi != "" {
		outputHuman("DOI: https://doi.org/%s\n", doi)
	}
	if w.Language != "" {
		outputHuman("Idioma: %s\n", work.LanguageLabel(w.Language))
	}
	if w.Metrics != nil && w.Metrics.CitationCount > 0 {
		outputHuman("Citações: %d\n", w.Metrics.CitationCount)
	}
	if w.Abstract != "" {
		outputHuman("\n%s\n", w.Abstract)
	}
}
