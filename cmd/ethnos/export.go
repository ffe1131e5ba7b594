package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ethnosapp/ethnos/internal/export"
)

var (
	exportFormat string
	exportAppend string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "bibtex", "Output format: abnt, bibtex, ris, json")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append new BibTeX entries to an existing .bib file instead of writing a new export")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the personal list as a bibliography",
	Long: `Export the personal reading list. Each item is enriched with the full
record from the API when available; items whose enrichment fails fall
back to the locally saved fields.

Formats:
  abnt    - ABNT-style reference document
  bibtex  - BibTeX bibliography (.bib)
  ris     - RIS records (.ris)
  json    - structured JSON envelope

Files are written to the configured export_dir (default: current
directory).

Examples:
  ethnos export --format abnt
  ethnos export -f ris
  ethnos export --append refs.bib`,
	Run: runExport,
}

func runExport(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.Close()
	ctx := context.Background()

	items := a.list.List()

	if exportAppend != "" {
		if _, err := a.exporter.AppendBibTeX(ctx, items, exportAppend); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		return
	}

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if err := a.exporter.Export(ctx, items, format); err != nil {
		exitWithError(ExitError, "%v", err)
	}
}
