package api

import (
	"net/url"
	"strconv"

	"github.com/ethnosapp/ethnos/internal/work"
)

// WorkSummary is one row of a search result page.
type WorkSummary struct {
	ID               int             `json:"id"`
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle,omitempty"`
	FormattedAuthors string          `json:"formatted_authors,omitempty"`
	AuthorString     string          `json:"author_string,omitempty"`
	Authors          work.AuthorList `json:"authors,omitempty"`
	PublicationYear  work.FlexString `json:"publication_year,omitempty"`
	Year             work.FlexString `json:"year,omitempty"`
	WorkType         string          `json:"work_type,omitempty"`
	Language         string          `json:"language,omitempty"`
	VenueName        string          `json:"venue_name,omitempty"`
	DOI              string          `json:"doi,omitempty"`
	Abstract         string          `json:"abstract,omitempty"`
	PeerReviewed     bool            `json:"peer_reviewed,omitempty"`
	RelevanceScore   float64         `json:"relevance_score,omitempty"`
}

// DisplayAuthors returns the best available author line for the summary.
func (w WorkSummary) DisplayAuthors() string {
	if w.FormattedAuthors != "" {
		return w.FormattedAuthors
	}
	if w.AuthorString != "" {
		return w.AuthorString
	}
	return w.Authors.Display()
}

// DisplayYear returns the publication year, preferring the canonical field.
func (w WorkSummary) DisplayYear() string {
	if w.PublicationYear.IsSet() {
		return w.PublicationYear.String()
	}
	return w.Year.String()
}

// Pagination describes the page window of a search response.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"totalPages"`
}

// SearchResponse is the payload of a works search.
type SearchResponse struct {
	Status     string        `json:"status,omitempty"`
	Total      int           `json:"total"`
	Data       []WorkSummary `json:"data"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	Text      string `json:"text"`
	Type      string `json:"type"` // title, venue, author
	WorkCount int    `json:"work_count,omitempty"`
}

// SuggestionsResponse is the autocomplete payload.
type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// VenueSummary is one row of the venues listing.
type VenueSummary struct {
	ID        work.FlexString `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type,omitempty"`
	ISSN      string          `json:"issn,omitempty"`
	WorkCount int             `json:"work_count,omitempty"`
}

// VenuesResponse is the payload of a venues listing.
type VenuesResponse struct {
	Total int            `json:"total"`
	Data  []VenueSummary `json:"data"`
}

// VenueDetail is the full record of a single venue.
type VenueDetail struct {
	ID         work.FlexString `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type,omitempty"`
	ISSN       string          `json:"issn,omitempty"`
	EISSN      string          `json:"eissn,omitempty"`
	Publisher  string          `json:"publisher,omitempty"`
	WorksCount int             `json:"works_count,omitempty"`
}

// AuthorSummary is one row of an author search.
type AuthorSummary struct {
	ID        work.FlexString `json:"id"`
	Name      string          `json:"name"`
	ORCID     string          `json:"orcid,omitempty"`
	WorkCount int             `json:"work_count,omitempty"`
}

// AuthorsResponse is the payload of an author search.
type AuthorsResponse struct {
	Total int             `json:"total"`
	Data  []AuthorSummary `json:"data"`
}

// SearchParams are the query parameters of a works search. Zero values are
// omitted from the request.
type SearchParams struct {
	Query     string
	Title     string
	Author    string
	Abstract  string
	Subject   string
	Venue     string
	Publisher string
	Type      string
	Language  string
	YearStart string
	YearEnd   string
	Sort      string
	Page      int // 1-based; offset is derived as (Page-1)*PerPage
	PerPage   int
}

// Values encodes the parameters for the works endpoint.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("q", p.Query)
	set("title", p.Title)
	set("author", p.Author)
	set("abstract", p.Abstract)
	set("subject", p.Subject)
	set("venue", p.Venue)
	set("publisher", p.Publisher)
	set("type", p.Type)
	set("language", p.Language)
	set("year_start", p.YearStart)
	set("year_end", p.YearEnd)
	set("sort", p.Sort)

	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	v.Set("limit", strconv.Itoa(perPage))
	if p.Page > 1 {
		v.Set("offset", strconv.Itoa((p.Page-1)*perPage))
	}
	return v
}
