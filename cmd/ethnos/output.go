package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ethnosapp/ethnos/internal/work"
)

// Title truncation lengths by context.
const (
	SearchTitleMaxLen = 70 // search result summaries
	ListTitleMaxLen   = 60 // list command output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// truncateString truncates a string to maxLen bytes without splitting a
// UTF-8 sequence, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// formatItemLine renders one saved item for human list output.
func formatItemLine(item work.SavedItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s", item.ID, truncateString(item.Title, ListTitleMaxLen))
	if authors := item.Authors.Display(); authors != "" {
		fmt.Fprintf(&sb, "\n   %s", truncateString(authors, ListTitleMaxLen))
	}
	var meta []string
	if item.PublicationYear.IsSet() {
		meta = append(meta, item.PublicationYear.String())
	}
	if item.VenueName != "" {
		meta = append(meta, item.VenueName)
	}
	if item.Type != "" {
		meta = append(meta, work.TypeLabel(item.Type))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, "\n   %s", strings.Join(meta, " · "))
	}
	return sb.String()
}
