package export

import (
	"fmt"
	"strings"
	"time"
)

// risType maps the API work type to a RIS reference type. Unknown types
// become journal articles when a venue is known and generic otherwise.
func risType(workType, venue string) string {
	switch workType {
	case "ARTICLE":
		return "JOUR"
	case "BOOK":
		return "BOOK"
	case "CHAPTER":
		return "CHAP"
	case "THESIS":
		return "THES"
	case "CONFERENCE":
		return "CONF"
	case "REPORT":
		return "RPRT"
	case "DATASET":
		return "DATA"
	default:
		if venue != "" {
			return "JOUR"
		}
		return "GEN"
	}
}

// risLanguageCodes maps ISO 639-1 codes to the three-letter codes most
// reference managers expect.
var risLanguageCodes = map[string]string{
	"pt": "por", "en": "eng", "es": "spa", "fr": "fre",
	"de": "ger", "it": "ita", "Eng": "eng", "Ita": "ita", "Por": "por",
}

func risTag(b *strings.Builder, tag, value string) {
	fmt.Fprintf(b, "%s  - %s\n", tag, value)
}

// RenderRIS renders the resolved list as a RIS file. Each record carries
// an ID tag with the work's numeric identifier so exported files can be
// re-imported later.
func RenderRIS(resolved []Resolved, now time.Time) string {
	var b strings.Builder
	for _, r := range resolved {
		writeRISRecord(&b, &r, now)
	}
	return b.String()
}

func writeRISRecord(b *strings.Builder, r *Resolved, now time.Time) {
	risTag(b, "TY", risType(r.WorkType, r.VenueName))
	risTag(b, "ID", fmt.Sprintf("%d", r.ID))

	if r.Title != "" {
		risTag(b, "TI", r.FullTitle(" - "))
	}

	if r.AuthorsFreeText != "" {
		risTag(b, "AU", r.AuthorsFreeText)
	}
	for _, a := range r.Authors {
		if a.Name == "" {
			continue
		}
		risTag(b, "AU", a.Name)
		if a.Affiliation != "" {
			risTag(b, "AD", a.Affiliation)
		}
		if a.ORCID != "" {
			risTag(b, "UR", "https://orcid.org/"+a.ORCID)
		}
	}

	if r.VenueName != "" {
		if risType(r.WorkType, r.VenueName) == "JOUR" {
			risTag(b, "JO", r.VenueName)
		} else {
			risTag(b, "T2", r.VenueName)
		}
	}

	if r.Year != "" {
		risTag(b, "PY", r.Year)
	}
	if r.Volume != "" {
		risTag(b, "VL", r.Volume)
	}
	if r.Issue != "" {
		risTag(b, "IS", r.Issue)
	}
	if r.Pages != "" {
		writeRISPages(b, r.Pages)
	}
	if r.Publisher != "" {
		risTag(b, "PB", r.Publisher)
	}
	if r.DOI != "" {
		risTag(b, "DO", r.DOI)
		risTag(b, "UR", "https://doi.org/"+r.DOI)
	}
	if r.ISSN != "" {
		risTag(b, "SN", r.ISSN)
	}

	if r.Abstract != "" {
		clean := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(r.Abstract)
		risTag(b, "AB", truncate(clean, 1000))
	}

	if r.Language != "" {
		code, ok := risLanguageCodes[r.Language]
		if !ok {
			code = strings.ToLower(r.Language)
		}
		risTag(b, "LA", code)
	}

	var keywords []string
	if r.PeerReviewed {
		keywords = append(keywords, "peer-reviewed")
	}
	if r.OpenAccess {
		keywords = append(keywords, "open-access")
	}
	if r.WorkType != "" {
		keywords = append(keywords, strings.ToLower(r.WorkType))
	}
	if len(keywords) > 0 {
		risTag(b, "KW", strings.Join(keywords, ", "))
	}

	risTag(b, "DB", "ethnos_app")
	risTag(b, "DP", "Ethnos Academic Database")
	risTag(b, "DA", now.Format("2006-01-02"))

	b.WriteString("ER  - \n\n")
}

// writeRISPages splits a page range on the first hyphen into SP/EP tags.
func writeRISPages(b *strings.Builder, pages string) {
	if !strings.Contains(pages, "-") {
		risTag(b, "SP", pages)
		return
	}
	start, end, _ := strings.Cut(pages, "-")
	risTag(b, "SP", strings.TrimSpace(start))
	if end = strings.TrimSpace(end); end != "" {
		risTag(b, "EP", end)
	}
}
