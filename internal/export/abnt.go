package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethnosapp/ethnos/internal/docgen"
)

// abntAuthors formats the author block of an ABNT reference: surnames
// upper-cased and first, entries joined with "; ".
func abntAuthors(r *Resolved) string {
	if r.AuthorsFreeText != "" {
		return strings.ToUpper(r.AuthorsFreeText)
	}
	if len(r.Authors) == 0 {
		return strings.ToUpper(DefaultAuthor)
	}
	names := make([]string, 0, len(r.Authors))
	for _, a := range r.Authors {
		names = append(names, surnameFirst(a.Name, true))
	}
	return strings.Join(names, "; ")
}

// abntReference builds the single-paragraph reference text for one item.
func abntReference(r *Resolved, now time.Time) string {
	title := r.Title
	if title == "" {
		title = DefaultTitle
	}
	year := r.Year
	if year == "" {
		year = DefaultYear
	}

	if r.Subtitle != "" {
		title += ": " + r.Subtitle
	}

	var b strings.Builder
	b.WriteString(abntAuthors(r))
	b.WriteString(". ")
	b.WriteString(title)
	b.WriteString(". ")

	if r.VenueName != "" {
		b.WriteString(r.VenueName + ", ")
		if r.Volume != "" {
			b.WriteString("v. " + r.Volume + ", ")
		}
		if r.Issue != "" {
			b.WriteString("n. " + r.Issue + ", ")
		}
	}
	if r.Publisher != "" {
		b.WriteString(r.Publisher + ", ")
	}

	if !strings.HasSuffix(year, ".") {
		year += "."
	}
	b.WriteString(year)

	if r.Pages != "" {
		b.WriteString(" p. " + r.Pages + ".")
	}
	if r.DOI != "" {
		fmt.Fprintf(&b, " Disponível em: https://doi.org/%s. Acesso em: %s.",
			r.DOI, now.Format("02/01/2006"))
	}
	return b.String()
}

// BuildABNTDocument assembles the reference-list document model: export
// header, one justified paragraph per reference, then coverage statistics.
func BuildABNTDocument(resolved []Resolved, now time.Time) docgen.Document {
	total := len(resolved)
	enriched := countEnriched(resolved)

	header := docgen.Section{Paragraphs: []docgen.Paragraph{
		{Text: "INFORMAÇÕES DA EXPORTAÇÃO", Bold: true},
		{Text: fmt.Sprintf("Data: %s às %s", now.Format("02/01/2006"), now.Format("15:04:05"))},
		{Text: fmt.Sprintf("Total de referências: %d", total)},
		{Text: fmt.Sprintf("Dados completos obtidos: %d", enriched)},
		{Text: "Fonte: Ethnos Academic Database"},
	}}

	refs := docgen.Section{Paragraphs: []docgen.Paragraph{
		{Text: "REFERÊNCIAS", Bold: true},
	}}
	for _, r := range resolved {
		refs.Paragraphs = append(refs.Paragraphs, docgen.Paragraph{
			Text:      abntReference(&r, now),
			Alignment: docgen.AlignJustify,
		})
	}

	stats := coverageStats(resolved)
	statsSection := docgen.Section{Paragraphs: []docgen.Paragraph{
		{Text: "ESTATÍSTICAS", Bold: true},
		{Text: fmt.Sprintf("Total de referências: %d", total)},
		{Text: fmt.Sprintf("Com resumo: %d (%d%%)", stats.WithAbstract, percent(stats.WithAbstract, total))},
		{Text: fmt.Sprintf("Com DOI: %d (%d%%)", stats.WithDOI, percent(stats.WithDOI, total))},
		{Text: fmt.Sprintf("Acesso aberto: %d (%d%%)", stats.OpenAccess, percent(stats.OpenAccess, total))},
		{Text: fmt.Sprintf("Revisado por pares: %d (%d%%)", stats.PeerReviewed, percent(stats.PeerReviewed, total))},
		{Text: "Gerado por Ethnos Academic Database - ethnos.app", Italic: true, Alignment: docgen.AlignCenter},
	}}

	return docgen.Document{Sections: []docgen.Section{header, refs, statsSection}}
}

// Stats counts quality markers across the enriched records of an export.
type Stats struct {
	WithAbstract int
	WithDOI      int
	OpenAccess   int
	PeerReviewed int
}

// coverageStats counts markers over enriched records only; local-only
// items never carry abstracts or DOIs.
func coverageStats(resolved []Resolved) Stats {
	var s Stats
	for _, r := range resolved {
		if r.Provenance != SourceEnriched {
			continue
		}
		if r.Abstract != "" {
			s.WithAbstract++
		}
		if r.DOI != "" {
			s.WithDOI++
		}
		if r.OpenAccess {
			s.OpenAccess++
		}
		if r.PeerReviewed {
			s.PeerReviewed++
		}
	}
	return s
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(n)/float64(total)*100 + 0.5)
}
