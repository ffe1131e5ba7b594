// Package export transforms the personal list into bibliographic output
// formats: an ABNT-style reference document, BibTeX, RIS, and a JSON
// envelope. Formatting is pure; enrichment and file saving are handled by
// the Exporter orchestrator.
package export

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ethnosapp/ethnos/internal/work"
)

// Provenance records where a resolved record's fields came from.
type Provenance int

const (
	// SourceLocal means enrichment failed and only the locally persisted
	// SavedItem fields are available.
	SourceLocal Provenance = iota
	// SourceEnriched means the full record was fetched from the API.
	SourceEnriched
)

// Literal defaults applied when a field is absent from both sources.
const (
	DefaultAuthor = "Autor não informado"
	DefaultTitle  = "Título não informado"
	DefaultYear   = "S.d."
)

// ResolvedAuthor is one author after normalization.
type ResolvedAuthor struct {
	Name        string
	GivenNames  string
	FamilyName  string
	ORCID       string
	Affiliation string
	PersonID    string
	Role        string
}

// Resolved is a list item after the single normalization pass: every
// field already reflects the enriched-over-local preference, so the
// formatters never chase fallback chains themselves.
type Resolved struct {
	ID       int
	Title    string
	Subtitle string
	WorkType string // upper-case API work type ("ARTICLE", ...)
	Language string
	Abstract string
	DOI      string

	// Authors holds structured entries; AuthorsFreeText carries the raw
	// string when the saved item stored authors as free text. At most one
	// of the two is set.
	Authors         []ResolvedAuthor
	AuthorsFreeText string

	Year      string
	Volume    string
	Issue     string
	Pages     string
	VenueName string
	ISSN      string
	EISSN     string
	Publisher string

	PublicationDate string
	OpenAccess      bool
	PeerReviewed    bool

	Metrics     *work.Metrics
	Identifiers []work.Identifier

	AddedAt    time.Time
	Provenance Provenance
}

// HasAuthors reports whether any author information survived resolution.
func (r *Resolved) HasAuthors() bool {
	return len(r.Authors) > 0 || r.AuthorsFreeText != ""
}

// FullTitle joins title and subtitle the way the export formats do.
func (r *Resolved) FullTitle(sep string) string {
	if r.Subtitle == "" {
		return r.Title
	}
	return r.Title + sep + r.Subtitle
}

// Resolve normalizes one saved item against its (possibly nil) enriched
// record.
func Resolve(item work.SavedItem, enriched *work.EnrichedWork) Resolved {
	r := Resolved{
		ID:         item.ID,
		Title:      item.Title,
		WorkType:   strings.ToUpper(item.Type),
		Year:       item.PublicationYear.String(),
		VenueName:  item.VenueName,
		AddedAt:    item.AddedAt,
		Provenance: SourceLocal,
	}
	resolveLocalAuthors(&r, item.Authors)

	if enriched == nil {
		return r
	}
	r.Provenance = SourceEnriched

	if enriched.Title != "" {
		r.Title = enriched.Title
	}
	r.Subtitle = enriched.Subtitle
	if t := enrichedType(enriched); t != "" {
		r.WorkType = t
	}
	r.Language = enriched.Language
	r.Abstract = enriched.Abstract
	r.DOI = enriched.ResolvedDOI()
	r.Metrics = enriched.Metrics
	r.Identifiers = enriched.Identifiers

	if len(enriched.Authors) > 0 {
		r.Authors = r.Authors[:0]
		r.AuthorsFreeText = ""
		for _, a := range enriched.Authors {
			r.Authors = append(r.Authors, ResolvedAuthor{
				Name:        a.DisplayName(),
				GivenNames:  a.GivenNames,
				FamilyName:  a.FamilyName,
				ORCID:       a.ORCID,
				Affiliation: a.Affiliation.String(),
				PersonID:    a.PersonID.String(),
				Role:        a.Role,
			})
		}
	}

	pub := enriched.Publication
	if pub != nil && pub.Year.IsSet() {
		r.Year = pub.Year.String()
	} else if enriched.Year.IsSet() {
		r.Year = enriched.Year.String()
	}
	r.Volume = pickFlex(pub, func(p *work.Publication) work.FlexString { return p.Volume }, enriched.Volume)
	r.Issue = pickFlex(pub, func(p *work.Publication) work.FlexString { return p.Issue }, enriched.Issue)
	r.Pages = pickFlex(pub, func(p *work.Publication) work.FlexString { return p.Pages }, enriched.Pages)
	if pub != nil {
		r.PublicationDate = pub.PublicationDate
		r.OpenAccess = pub.OpenAccess || enriched.OpenAccess
		r.PeerReviewed = pub.PeerReviewed || enriched.PeerReviewed
	} else {
		r.OpenAccess = enriched.OpenAccess
		r.PeerReviewed = enriched.PeerReviewed
	}

	if enriched.Venue != nil && enriched.Venue.Name != "" {
		r.VenueName = enriched.Venue.Name
	} else if enriched.VenueName != "" {
		r.VenueName = enriched.VenueName
	}
	if enriched.Venue != nil {
		r.ISSN = enriched.Venue.ISSN
		r.EISSN = enriched.Venue.EISSN
	}
	if enriched.Publisher != nil && enriched.Publisher.Name != "" {
		r.Publisher = enriched.Publisher.Name
	} else if enriched.PublisherName != "" {
		r.Publisher = enriched.PublisherName
	}

	return r
}

// ResolveAll normalizes the whole list, preserving insertion order. Items
// without an enriched record resolve from local fields alone and are
// never dropped.
func ResolveAll(items []work.SavedItem, enriched map[int]*work.EnrichedWork) []Resolved {
	resolved := make([]Resolved, 0, len(items))
	for _, item := range items {
		resolved = append(resolved, Resolve(item, enriched[item.ID]))
	}
	return resolved
}

func resolveLocalAuthors(r *Resolved, authors work.AuthorList) {
	if authors.FreeText != "" {
		r.AuthorsFreeText = authors.FreeText
		return
	}
	for _, ref := range authors.Refs {
		if ref.FullName != "" {
			r.Authors = append(r.Authors, ResolvedAuthor{Name: ref.FullName})
		}
	}
}

func enrichedType(w *work.EnrichedWork) string {
	if w.WorkType != "" {
		return strings.ToUpper(w.WorkType)
	}
	return strings.ToUpper(w.Type)
}

// truncate caps s at max bytes, backing up to the nearest rune boundary
// so exported text is never cut mid-sequence, and marks the cut with an
// ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func pickFlex(pub *work.Publication, field func(*work.Publication) work.FlexString, flat work.FlexString) string {
	if pub != nil {
		if v := field(pub); v.IsSet() {
			return v.String()
		}
	}
	if flat.IsSet() {
		return flat.String()
	}
	return ""
}
