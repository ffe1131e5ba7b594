package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/api"
	"github.com/ethnosapp/ethnos/internal/list"
	"github.com/ethnosapp/ethnos/internal/pdf"
	"github.com/ethnosapp/ethnos/internal/work"
)

var (
	listAddPDF     string
	listClearForce bool
)

func init() {
	listAddCmd.Flags().StringVar(&listAddPDF, "pdf", "", "Add the work identified by the DOI inside a PDF file")
	listClearCmd.Flags().BoolVarP(&listClearForce, "force", "f", false, "Skip the confirmation prompt")

	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRemoveCmd)
	listCmd.AddCommand(listClearCmd)
	listCmd.AddCommand(listCountCmd)
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage the personal reading list",
	Long: `Manage the locally persisted personal reading list.

Examples:
  ethnos list show --human
  ethnos list add 12345
  ethnos list add --pdf paper.pdf
  ethnos list remove 12345
  ethnos list clear
  ethnos list count`,
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved items, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		items := a.list.List()
		// Insertion order is oldest first; display newest first.
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}

		if !humanOutput {
			outputJSON(map[string]interface{}{"total": len(items), "items": items})
			return
		}
		if len(items) == 0 {
			outputHuman("Sua lista está vazia\n")
			return
		}
		for _, item := range items {
			outputHuman("%s\n\n", formatItemLine(item))
		}
		outputHuman("%d itens\n", len(items))
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Add a work to the list by ID or from a PDF",
	Args:  cobra.MaximumNArgs(1),
	Run:   runListAdd,
}

func runListAdd(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()
	ctx := context.Background()

	var summary *api.WorkSummary
	switch {
	case listAddPDF != "":
		summary = resolvePDF(ctx, a, listAddPDF)
	case len(args) == 1:
		id, err := strconv.Atoi(args[0])
		if err != nil {
			exitWithError(ExitDataError, "invalid work id %q", args[0])
		}
		w, err := a.client.GetWorkDetails(ctx, id)
		if err != nil {
			if errors.Is(err, api.ErrNotFound) {
				exitWithError(ExitNotFound, "work %d not found", id)
			}
			exitWithError(ExitAPIError, "fetching work %d: %v", id, err)
		}
		summary = summaryFromWork(w)
	default:
		exitWithError(ExitDataError, "pass a work id or --pdf <file>")
	}

	item := work.SavedItem{
		ID:              summary.ID,
		Title:           summary.Title,
		Authors:         summary.Authors,
		PublicationYear: summary.PublicationYear,
		VenueName:       summary.VenueName,
		Type:            summary.WorkType,
	}
	if !item.PublicationYear.IsSet() {
		item.PublicationYear = summary.Year
	}
	if item.Authors.FreeText == "" && len(item.Authors.Refs) == 0 {
		item.Authors.FreeText = summary.DisplayAuthors()
	}

	res := a.list.Add(item)
	reportResult(res, fmt.Sprintf("%q adicionado à lista", truncateString(item.Title, ListTitleMaxLen)))
}

// resolvePDF finds the work a PDF belongs to: DOI lookup first, title
// search as fallback.
func resolvePDF(ctx context.Context, a *app, path string) *api.WorkSummary {
	doi, err := pdf.ExtractDOI(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	if doi != "" {
		summary, err := a.client.ResolveByDOI(ctx, doi)
		if err == nil {
			return summary
		}
		if !errors.Is(err, api.ErrNotFound) {
			exitWithError(ExitAPIError, "resolving DOI %s: %v", doi, err)
		}
		a.log.Info(ctx, "doi not in database, trying title", "doi", doi)
	}

	title, err := pdf.ExtractTitle(path)
	if err != nil || title == "" {
		exitWithError(ExitNotFound, "no DOI or title found in %s", path)
	}
	resp, err := a.client.SearchWorks(ctx, api.SearchParams{Title: title, PerPage: 1})
	if err != nil {
		exitWithError(ExitAPIError, "searching for %q: %v", title, err)
	}
	if len(resp.Data) == 0 {
		exitWithError(ExitNotFound, "no work matching %q", truncateString(title, SearchTitleMaxLen))
	}
	return &resp.Data[0]
}

func summaryFromWork(w *work.EnrichedWork) *api.WorkSummary {
	s := &api.WorkSummary{
		ID:       w.ID,
		Title:    w.Title,
		WorkType: w.WorkType,
		VenueName: func() string {
			if w.Venue != nil && w.Venue.Name != "" {
				return w.Venue.Name
			}
			return w.VenueName
		}(),
	}
	if w.Publication != nil && w.Publication.Year.IsSet() {
		s.PublicationYear = w.Publication.Year
	} else {
		s.PublicationYear = w.Year
	}
	for _, a := range w.Authors {
		s.Authors.Refs = append(s.Authors.Refs, work.AuthorRef{FullName: a.DisplayName()})
	}
	return s
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a work from the list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			exitWithError(ExitDataError, "invalid work id %q", args[0])
		}

		a := mustApp()
		defer a.Close()

		res := a.list.Remove(id)
		reportResult(res, fmt.Sprintf("item %d removido da lista", id))
	},
}

var listClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item from the list",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		confirm := func() bool { return listClearForce || promptYesNo("Limpar toda a lista?") }
		res := a.list.Clear(confirm)
		reportResult(res, "lista limpa")
	},
}

var listCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of saved items",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		n := a.list.Count()
		if humanOutput {
			outputHuman("%d\n", n)
		} else {
			outputJSON(map[string]int{"count": n})
		}
	},
}

// reportResult renders a list.Result, exiting non-zero on failure.
func reportResult(res list.Result, successMsg string) {
	if res.OK {
		if humanOutput {
			outputHuman("%s\n", successMsg)
		} else {
			outputJSON(StatusResponse{Status: "ok"})
		}
		return
	}

	code := ExitError
	switch {
	case errors.Is(res.Err, list.ErrInvalidItem):
		code = ExitDataError
	case errors.Is(res.Err, list.ErrDuplicateItem):
		code = ExitDataError
	case errors.Is(res.Err, list.ErrNotFound):
		code = ExitNotFound
	}
	exitWithError(code, "%s", res.Message)
}

func promptYesNo(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes" || answer == "s" || answer == "sim"
}
