package export

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethnosapp/ethnos/internal/docgen"
	"github.com/ethnosapp/ethnos/internal/download"
	"github.com/ethnosapp/ethnos/internal/logging"
	"github.com/ethnosapp/ethnos/internal/notify"
	"github.com/ethnosapp/ethnos/internal/work"
)

// Format selects an export output format.
type Format string

const (
	FormatABNT   Format = "abnt"
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
	FormatJSON   Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatABNT, FormatBibTeX, FormatRIS, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("formato de exportação desconhecido: %q (use abnt, bibtex, ris ou json)", s)
}

// DetailFetcher fetches full work records for enrichment. Fetch failures
// surface as missing map entries, never as an error.
type DetailFetcher interface {
	FetchDetailsBatch(ctx context.Context, ids []int) map[int]*work.EnrichedWork
}

// Exporter turns the personal list into a saved export file: enrich,
// resolve, format, save.
type Exporter struct {
	fetcher  DetailFetcher
	saver    download.Saver
	gen      docgen.Generator
	notifier notify.Notifier
	log      logging.Logger
	now      func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithGenerator replaces the document generator used for the formatted
// reference export.
func WithGenerator(g docgen.Generator) Option {
	return func(e *Exporter) { e.gen = g }
}

// WithNotifier sets the user-notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Exporter) { e.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Exporter) { e.log = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter writing through the given saver.
func New(fetcher DetailFetcher, saver download.Saver, opts ...Option) *Exporter {
	e := &Exporter{
		fetcher:  fetcher,
		saver:    saver,
		gen:      docgen.TextGenerator{},
		notifier: notify.Discard{},
		log:      logging.NopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export enriches the list and writes it out in the requested format. An
// empty list produces an informational notification and no file.
func (e *Exporter) Export(ctx context.Context, items []work.SavedItem, format Format) error {
	if len(items) == 0 {
		e.notifier.Notify(notify.Info, "Sua lista está vazia. Não há nada para exportar.")
		return nil
	}

	e.notifier.Notify(notify.Info, "Buscando dados completos...")
	resolved := e.resolve(ctx, items)
	now := e.now()

	var (
		content  []byte
		filename string
		mimeType string
		success  string
		err      error
	)
	date := now.Format("2006-01-02")

	switch format {
	case FormatABNT:
		doc := BuildABNTDocument(resolved, now)
		var ext string
		content, mimeType, err = e.gen.Render(doc)
		if err != nil {
			return fmt.Errorf("rendering reference document: %w", err)
		}
		ext = extensionFor(mimeType)
		filename = "referencias-abnt-" + date + ext
		success = "Referências ABNT exportadas com sucesso"
	case FormatBibTeX:
		content = []byte(RenderBibTeX(resolved, now))
		filename = "bibliografia-" + date + ".bib"
		mimeType = "text/plain"
		success = "Bibliografia BibTeX exportada com formatação profissional"
	case FormatRIS:
		content = []byte(RenderRIS(resolved, now))
		filename = "referencias-expandido-" + date + ".ris"
		mimeType = "application/x-research-info-systems"
		success = "Bibliografia RIS expandida exportada com sucesso"
	case FormatJSON:
		content, err = RenderJSON(resolved, now)
		if err != nil {
			return err
		}
		filename = "referencias-expandido-" + date + ".json"
		mimeType = "application/json"
		success = "Dados JSON expandidos exportados com sucesso"
	default:
		return fmt.Errorf("formato de exportação desconhecido: %q", format)
	}

	if err := e.saver.Save(content, filename, mimeType); err != nil {
		return fmt.Errorf("saving export: %w", err)
	}

	e.log.Info(ctx, "export written",
		"format", string(format), "file", filename, "items", len(items))
	e.notifier.Notify(notify.Success, success)
	return nil
}

// AppendBibTeX appends the list's BibTeX entries to an existing .bib
// file, skipping works the file already contains (matched by DOI, then by
// citation key). It returns the number of entries appended.
func (e *Exporter) AppendBibTeX(ctx context.Context, items []work.SavedItem, path string) (int, error) {
	if len(items) == 0 {
		e.notifier.Notify(notify.Info, "Sua lista está vazia. Não há nada para exportar.")
		return 0, nil
	}

	idx, err := IndexBibFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	e.notifier.Notify(notify.Info, "Buscando dados completos...")
	resolved := e.resolve(ctx, items)

	var fresh []Resolved
	for _, r := range resolved {
		if !idx.Has(&r) {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		e.notifier.Notify(notify.Info, "Todas as referências já estão no arquivo.")
		return 0, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	for _, r := range fresh {
		if _, err := f.WriteString("\n" + BibTeXEntry(&r)); err != nil {
			return 0, fmt.Errorf("appending to %s: %w", path, err)
		}
	}

	e.log.Info(ctx, "bibtex entries appended",
		"file", path, "appended", len(fresh), "skipped", len(resolved)-len(fresh))
	e.notifier.Notify(notify.Success,
		fmt.Sprintf("%d referências adicionadas a %s", len(fresh), path))
	return len(fresh), nil
}

func (e *Exporter) resolve(ctx context.Context, items []work.SavedItem) []Resolved {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	enriched := e.fetcher.FetchDetailsBatch(ctx, ids)
	if len(enriched) == 0 {
		e.notifier.Notify(notify.Error, "Erro ao buscar dados completos. Usando dados locais.")
	} else if len(enriched) < len(items) {
		e.log.Warn(ctx, "partial enrichment",
			"requested", len(items), "fetched", len(enriched))
	}

	return ResolveAll(items, enriched)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "text/plain":
		return ".txt"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	default:
		return ".txt"
	}
}
