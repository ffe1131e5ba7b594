// Package work defines the core domain types for academic works.
package work

import "time"

// SavedItem is one entry of the user's personal reading list. It carries
// only the abbreviated fields captured at the moment the user saved the
// work; fuller records are fetched on demand (see EnrichedWork).
type SavedItem struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Authors         AuthorList `json:"authors,omitempty"`
	PublicationYear FlexString `json:"publication_year,omitempty"`
	VenueName       string     `json:"venue_name,omitempty"`
	Type            string     `json:"type,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
}

// EnrichedWork is the full record returned by the work-details endpoint.
// It is fetched lazily for exports and never persisted; when the fetch
// fails the corresponding SavedItem fields are used instead.
type EnrichedWork struct {
	ID       int        `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	WorkType string     `json:"work_type,omitempty"`
	Type     string     `json:"type,omitempty"`
	Language string     `json:"language,omitempty"`
	Abstract string     `json:"abstract,omitempty"`
	DOI      string     `json:"doi,omitempty"`
	TempDOI  string     `json:"temp_doi,omitempty"`

	Authors     []EnrichedAuthor `json:"authors,omitempty"`
	Publication *Publication     `json:"publication,omitempty"`
	Venue       *Venue           `json:"venue,omitempty"`
	Publisher   *Publisher       `json:"publisher,omitempty"`
	Metrics     *Metrics         `json:"metrics,omitempty"`
	Identifiers []Identifier     `json:"identifiers,omitempty"`

	// Flat fallbacks present on older records.
	Year          FlexString `json:"year,omitempty"`
	VenueName     string     `json:"venue_name,omitempty"`
	PublisherName string     `json:"publisher_name,omitempty"`
	Volume        FlexString `json:"volume,omitempty"`
	Issue         FlexString `json:"issue,omitempty"`
	Pages         FlexString `json:"pages,omitempty"`
	OpenAccess    bool       `json:"open_access,omitempty"`
	PeerReviewed  bool       `json:"peer_reviewed,omitempty"`
}

// EnrichedAuthor is an author entry on an enriched work record.
type EnrichedAuthor struct {
	PersonID    FlexString  `json:"person_id,omitempty"`
	Name        string      `json:"name,omitempty"`
	FullName    string      `json:"full_name,omitempty"`
	GivenNames  string      `json:"given_names,omitempty"`
	FamilyName  string      `json:"family_name,omitempty"`
	ORCID       string      `json:"orcid,omitempty"`
	Affiliation Affiliation `json:"affiliation,omitempty"`
	Role        string      `json:"role,omitempty"`
}

// DisplayName returns the best available name for the author.
func (a EnrichedAuthor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.FullName
}

// Publication holds the nested publication block of an enriched work.
type Publication struct {
	Year            FlexString `json:"year,omitempty"`
	Volume          FlexString `json:"volume,omitempty"`
	Issue           FlexString `json:"issue,omitempty"`
	Pages           FlexString `json:"pages,omitempty"`
	PublicationDate string     `json:"publication_date,omitempty"`
	OpenAccess      bool       `json:"open_access,omitempty"`
	PeerReviewed    bool       `json:"peer_reviewed,omitempty"`
}

// Venue is the journal, book, or event a work appeared in.
type Venue struct {
	ID    FlexString `json:"id,omitempty"`
	Name  string     `json:"name,omitempty"`
	Type  string     `json:"type,omitempty"`
	ISSN  string     `json:"issn,omitempty"`
	EISSN string     `json:"eissn,omitempty"`
}

// Publisher identifies the publishing organization.
type Publisher struct {
	ID   FlexString `json:"id,omitempty"`
	Name string     `json:"name,omitempty"`
}

// Metrics carries citation and file counts for a work.
type Metrics struct {
	CitationCount int  `json:"citation_count"`
	FileCount     int  `json:"file_count"`
	HasFiles      bool `json:"has_files"`
	HasCitations  bool `json:"has_citations"`
}

// Identifier is an external identifier attached to a work (PMID, ARXIV, ...).
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ResolvedDOI returns the work's DOI, falling back to the provisional one.
func (w *EnrichedWork) ResolvedDOI() string {
	if w.DOI != "" {
		return w.DOI
	}
	return w.TempDOI
}
