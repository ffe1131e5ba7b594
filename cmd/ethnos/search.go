package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/api"
	"github.com/ethnosapp/ethnos/internal/search"
)

var (
	searchTitle     string
	searchAuthor    string
	searchAbstract  string
	searchSubject   string
	searchVenue     string
	searchPublisher string
	searchType      string
	searchLanguage  string
	searchYear      string
	searchSort      string
	searchPage      int
	searchPerPage   int
)

func init() {
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Search in title only")
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Search by author name")
	searchCmd.Flags().StringVar(&searchAbstract, "abstract", "", "Search in abstracts")
	searchCmd.Flags().StringVar(&searchSubject, "subject", "", "Filter by subject")
	searchCmd.Flags().StringVar(&searchVenue, "venue", "", "Filter by venue/journal")
	searchCmd.Flags().StringVar(&searchPublisher, "publisher", "", "Filter by publisher")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Filter by work type (ARTICLE, BOOK, THESIS, ...)")
	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "Filter by language code (pt, en, ...)")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "Filter by year: exact (2024) or range (2020:2024)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort order (relevance, year_desc, year_asc, citations)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Result page (1-based)")
	searchCmd.Flags().IntVar(&searchPerPage, "per-page", api.DefaultPerPage, "Results per page")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search works in the Ethnos database",
	Long: `Search academic works with flexible filtering.

The positional query searches across titles, abstracts, and authors.
Flags narrow the search to specific fields.

Year syntax:
  --year 2024         - Exact year
  --year 2020:2024    - Range (inclusive)
  --year 2020:        - 2020 and later
  --year :2024        - 2024 and earlier

Examples:
  ethnos search "etnografia urbana"
  ethnos search -a "Gilberto Freyre" --year 1930:1960
  ethnos search --venue "Mana" --type ARTICLE --page 2 --human`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()

	params := api.SearchParams{
		Title:     searchTitle,
		Author:    searchAuthor,
		Abstract:  searchAbstract,
		Subject:   searchSubject,
		Venue:     searchVenue,
		Publisher: searchPublisher,
		Type:      searchType,
		Language:  searchLanguage,
		Sort:      searchSort,
		Page:      searchPage,
		PerPage:   searchPerPage,
	}
	if len(args) > 0 {
		params.Query = args[0]
	}
	params.YearStart, params.YearEnd = splitYearRange(searchYear)

	r := &cliRenderer{}
	ctrl := search.New(a.client, r, search.WithLogger(a.log))
	ctrl.Submit(context.Background(), params)

	if r.failed {
		os.Exit(ExitAPIError)
	}
}

// splitYearRange parses "2024", "2020:2024", "2020:", ":2024".
func splitYearRange(s string) (start, end string) {
	if s == "" {
		return "", ""
	}
	if !strings.Contains(s, ":") {
		return s, s
	}
	start, end, _ = strings.Cut(s, ":")
	return start, end
}

// cliRenderer renders controller output to the terminal.
type cliRenderer struct {
	failed bool
}

func (r *cliRenderer) Results(resp *api.SearchResponse, params api.SearchParams) {
	if !humanOutput {
		outputJSON(resp)
		return
	}

	if len(resp.Data) == 0 {
		outputHuman("Nenhum resultado encontrado\n")
		return
	}

	outputHuman("%d resultados\n\n", resp.Total)
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = api.DefaultPerPage
	}
	offset := (page - 1) * perPage

	for i, w := range resp.Data {
		outputHuman("%d. [%d] %s\n", offset+i+1, w.ID, truncateString(w.Title, SearchTitleMaxLen))
		if authors := w.DisplayAuthors(); authors != "" {
			outputHuman("   %s\n", truncateString(authors, SearchTitleMaxLen))
		}
		var meta []string
		if y := w.DisplayYear(); y != "" {
			meta = append(meta, y)
		}
		if w.VenueName != "" {
			meta = append(meta, w.VenueName)
		}
		if len(meta) > 0 {
			outputHuman("   %s\n", strings.Join(meta, " · "))
		}
		outputHuman("\n")
	}

	if resp.Pagination != nil && resp.Pagination.TotalPages > 1 {
		outputHuman("Página %d de %d\n", resp.Pagination.Page, resp.Pagination.TotalPages)
	}
}

func (r *cliRenderer) Suggestions(suggestions []api.Suggestion, query string) {
	if !humanOutput {
		outputJSON(map[string]interface{}{"query": query, "suggestions": suggestions})
		return
	}
	if len(suggestions) == 0 {
		outputHuman("Nenhuma sugestão para %q\n", query)
		return
	}
	for _, s := range suggestions {
		line := fmt.Sprintf("%s (%s)", s.Text, s.Type)
		if s.WorkCount > 0 {
			line += fmt.Sprintf(" · %d trabalhos", s.WorkCount)
		}
		outputHuman("%s\n", line)
	}
}

func (r *cliRenderer) SearchError(message string) {
	r.failed = true
	if humanOutput {
		outputHuman("%s\n", message)
	} else {
		outputJSON(ErrorResponse{Error: message})
	}
}
