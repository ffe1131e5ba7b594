package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethnosapp/ethnos/internal/work"
)

// JSONExport is the envelope of the structured JSON export format.
type JSONExport struct {
	Metadata   JSONMetadata   `json:"metadata"`
	ExportInfo JSONExportInfo `json:"export_info"`
	Works      []JSONWork     `json:"works"`
	Statistics JSONStatistics `json:"statistics"`
}

// JSONMetadata identifies the export format and its provenance.
type JSONMetadata struct {
	Format             string `json:"format"`
	Version            string `json:"version"`
	ExportedAt         string `json:"exported_at"`
	Generator          string `json:"generator"`
	Source             string `json:"source"`
	TotalItems         int    `json:"total_items"`
	APICallsSuccessful int    `json:"api_calls_successful"`
	DataQuality        string `json:"data_quality"`
}

// JSONExportInfo summarizes enrichment coverage and list age.
type JSONExportInfo struct {
	UserListSize          int    `json:"user_list_size"`
	EnhancedRecords       int    `json:"enhanced_records"`
	FallbackRecords       int    `json:"fallback_records"`
	DataCompletenessRatio string `json:"data_completeness_ratio"`
	EarliestAdded         *int64 `json:"earliest_added"`
	LatestAdded           *int64 `json:"latest_added"`
}

// JSONWork is one normalized work record in the export.
type JSONWork struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Subtitle    *string         `json:"subtitle"`
	WorkType    string          `json:"work_type"`
	Language    *string         `json:"language"`
	Abstract    *string         `json:"abstract"`
	Publication JSONPublication `json:"publication"`
	Venue       *JSONVenue      `json:"venue"`
	Publisher   *JSONPublisher  `json:"publisher"`
	Authors     []JSONAuthor    `json:"authors"`
	Identifiers JSONIdentifiers `json:"identifiers"`
	Metrics     work.Metrics    `json:"metrics"`
	UserMeta    JSONUserMeta    `json:"user_metadata"`
}

type JSONPublication struct {
	Year            *string `json:"year"`
	Volume          *string `json:"volume"`
	Issue           *string `json:"issue"`
	Pages           *string `json:"pages"`
	PublicationDate *string `json:"publication_date"`
	OpenAccess      bool    `json:"open_access"`
	PeerReviewed    bool    `json:"peer_reviewed"`
}

type JSONVenue struct {
	ID    *string `json:"id,omitempty"`
	Name  *string `json:"name"`
	Type  *string `json:"type,omitempty"`
	ISSN  *string `json:"issn,omitempty"`
	EISSN *string `json:"eissn,omitempty"`
}

type JSONPublisher struct {
	ID   *string `json:"id,omitempty"`
	Name *string `json:"name"`
}

type JSONAuthor struct {
	Position    int     `json:"position"`
	PersonID    *string `json:"person_id"`
	Name        *string `json:"name"`
	GivenNames  *string `json:"given_names"`
	FamilyName  *string `json:"family_name"`
	ORCID       *string `json:"orcid"`
	Affiliation *string `json:"affiliation"`
	Role        string  `json:"role"`
}

type JSONIdentifiers struct {
	DOI   *string `json:"doi"`
	PMID  *string `json:"pmid"`
	Arxiv *string `json:"arxiv"`
}

type JSONUserMeta struct {
	AddedToListAt   string `json:"added_to_list_at"`
	ExportTimestamp string `json:"export_timestamp"`
	DataSource      string `json:"data_source"`
}

// JSONStatistics is the closing summary block.
type JSONStatistics struct {
	TotalWorks      int `json:"total_works"`
	EnhancedFromAPI int `json:"enhanced_from_api"`
	UsingLocalData  int `json:"using_local_data"`
	HasAbstracts    int `json:"has_abstracts"`
	HasDOI          int `json:"has_doi"`
	OpenAccess      int `json:"open_access"`
	PeerReviewed    int `json:"peer_reviewed"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// BuildJSONExport assembles the export envelope from the resolved list.
func BuildJSONExport(resolved []Resolved, now time.Time) JSONExport {
	total := len(resolved)
	enriched := countEnriched(resolved)

	quality := "complete"
	if enriched < total {
		quality = "partial"
	}
	ratio := "0.0%"
	if total > 0 {
		ratio = fmt.Sprintf("%.1f%%", float64(enriched)/float64(total)*100)
	}

	var earliest, latest *int64
	for _, r := range resolved {
		ms := r.AddedAt.UnixMilli()
		if earliest == nil || ms < *earliest {
			v := ms
			earliest = &v
		}
		if latest == nil || ms > *latest {
			v := ms
			latest = &v
		}
	}

	works := make([]JSONWork, 0, total)
	for _, r := range resolved {
		works = append(works, buildJSONWork(&r, now))
	}

	stats := coverageStats(resolved)
	return JSONExport{
		Metadata: JSONMetadata{
			Format:             "ethnos_json_export",
			Version:            "2.1",
			ExportedAt:         now.UTC().Format(time.RFC3339),
			Generator:          "ethnos_app Personal List System",
			Source:             "Ethnos Academic Database API v2.0",
			TotalItems:         total,
			APICallsSuccessful: enriched,
			DataQuality:        quality,
		},
		ExportInfo: JSONExportInfo{
			UserListSize:          total,
			EnhancedRecords:       enriched,
			FallbackRecords:       total - enriched,
			DataCompletenessRatio: ratio,
			EarliestAdded:         earliest,
			LatestAdded:           latest,
		},
		Works: works,
		Statistics: JSONStatistics{
			TotalWorks:      total,
			EnhancedFromAPI: enriched,
			UsingLocalData:  total - enriched,
			HasAbstracts:    stats.WithAbstract,
			HasDOI:          stats.WithDOI,
			OpenAccess:      stats.OpenAccess,
			PeerReviewed:    stats.PeerReviewed,
		},
	}
}

func buildJSONWork(r *Resolved, now time.Time) JSONWork {
	title := r.Title
	if title == "" {
		title = "Untitled"
	}
	workType := r.WorkType
	if workType == "" {
		workType = "unknown"
	}

	w := JSONWork{
		ID:       r.ID,
		Title:    title,
		Subtitle: optional(r.Subtitle),
		WorkType: workType,
		Language: optional(r.Language),
		Abstract: optional(r.Abstract),
		Publication: JSONPublication{
			Year:            optional(r.Year),
			Volume:          optional(r.Volume),
			Issue:           optional(r.Issue),
			Pages:           optional(r.Pages),
			PublicationDate: optional(r.PublicationDate),
			OpenAccess:      r.OpenAccess,
			PeerReviewed:    r.PeerReviewed,
		},
		Identifiers: JSONIdentifiers{
			DOI:   optional(r.DOI),
			PMID:  optional(identifierValue(r.Identifiers, "PMID")),
			Arxiv: optional(identifierValue(r.Identifiers, "ARXIV")),
		},
		UserMeta: JSONUserMeta{
			AddedToListAt:   r.AddedAt.UTC().Format(time.RFC3339),
			ExportTimestamp: now.UTC().Format(time.RFC3339),
			DataSource:      "local_storage",
		},
	}

	if r.Provenance == SourceEnriched {
		w.UserMeta.DataSource = "api_enhanced"
	}
	if r.Metrics != nil {
		w.Metrics = *r.Metrics
	}
	if r.VenueName != "" {
		w.Venue = &JSONVenue{
			Name:  optional(r.VenueName),
			ISSN:  optional(r.ISSN),
			EISSN: optional(r.EISSN),
		}
	}
	if r.Publisher != "" {
		w.Publisher = &JSONPublisher{Name: optional(r.Publisher)}
	}

	if r.AuthorsFreeText != "" {
		w.Authors = []JSONAuthor{{
			Position: 1,
			Name:     optional(r.AuthorsFreeText),
			Role:     "AUTHOR",
		}}
	} else {
		w.Authors = make([]JSONAuthor, 0, len(r.Authors))
		for i, a := range r.Authors {
			role := a.Role
			if role == "" {
				role = "AUTHOR"
			}
			w.Authors = append(w.Authors, JSONAuthor{
				Position:    i + 1,
				PersonID:    optional(a.PersonID),
				Name:        optional(a.Name),
				GivenNames:  optional(a.GivenNames),
				FamilyName:  optional(a.FamilyName),
				ORCID:       optional(a.ORCID),
				Affiliation: optional(a.Affiliation),
				Role:        role,
			})
		}
	}

	return w
}

// RenderJSON renders the envelope as indented JSON.
func RenderJSON(resolved []Resolved, now time.Time) ([]byte, error) {
	env := BuildJSONExport(resolved, now)
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return out, nil
}

func identifierValue(ids []work.Identifier, typ string) string {
	for _, id := range ids {
		if id.Type == typ {
			return id.Value
		}
	}
	return ""
}
