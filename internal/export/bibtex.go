package export

import (
	"fmt"
	"strings"
	"time"
)

// bibtexEntryType maps the API work type to a BibTeX entry type. Types
// without a specific mapping become articles when a venue is known and
// misc otherwise.
func bibtexEntryType(workType, venue string) string {
	switch workType {
	case "ARTICLE":
		if venue != "" {
			return "article"
		}
		return "misc"
	case "BOOK":
		return "book"
	case "CHAPTER":
		return "incollection"
	case "CONFERENCE":
		return "inproceedings"
	case "THESIS":
		return "phdthesis"
	case "REPORT":
		return "techreport"
	default:
		if venue != "" {
			return "article"
		}
		return "misc"
	}
}

// CiteKey builds a readable citation key from the first author's surname
// and the year. The work ID suffix keeps keys unique even when surname
// and year collide.
func CiteKey(r *Resolved) string {
	if len(r.Authors) == 0 || r.Authors[0].Name == "" {
		return fmt.Sprintf("work%d", r.ID)
	}
	parts := strings.Fields(r.Authors[0].Name)
	surname := strings.ToLower(parts[len(parts)-1])
	year := r.Year
	if year == "" {
		year = "nodate"
	}
	return fmt.Sprintf("%s%swork%d", surname, year, r.ID)
}

// bibtexAuthors joins authors in "Surname, Given Names" form with " and ".
// Free-text author strings have their ";" separators rewritten instead.
func bibtexAuthors(r *Resolved) string {
	if r.AuthorsFreeText != "" {
		return strings.ReplaceAll(r.AuthorsFreeText, ";", " and")
	}
	names := make([]string, 0, len(r.Authors))
	for _, a := range r.Authors {
		names = append(names, surnameFirst(a.Name, false))
	}
	return strings.Join(names, " and ")
}

// surnameFirst rewrites "Given Names Surname" as "Surname, Given Names".
// Single-word names pass through unchanged.
func surnameFirst(name string, upperSurname bool) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		if upperSurname {
			return strings.ToUpper(name)
		}
		return name
	}
	surname := parts[len(parts)-1]
	if upperSurname {
		surname = strings.ToUpper(surname)
	}
	return surname + ", " + strings.Join(parts[:len(parts)-1], " ")
}

func bibtexField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "  %-9s = {%s},\n", name, value)
}

// RenderBibTeX renders the resolved list as a commented BibTeX file.
func RenderBibTeX(resolved []Resolved, now time.Time) string {
	var b strings.Builder

	b.WriteString("%================================================================\n")
	b.WriteString("%                    BIBLIOGRAFIA BIBTEX                        \n")
	b.WriteString("%                   Ethnos Academic Database                    \n")
	b.WriteString("%================================================================\n")
	b.WriteString("%\n")
	fmt.Fprintf(&b, "%% Exportado em: %s às %s\n", now.Format("02/01/2006"), now.Format("15:04:05"))
	fmt.Fprintf(&b, "%% Total de referências: %d\n", len(resolved))
	fmt.Fprintf(&b, "%% Dados completos obtidos: %d\n", countEnriched(resolved))
	b.WriteString("% Formato: BibTeX padrão para LaTeX\n")
	b.WriteString("% Fonte: ethnos.app\n")
	b.WriteString("%\n")
	b.WriteString("%----------------------------------------------------------------\n\n")

	for i, r := range resolved {
		fmt.Fprintf(&b, "%% -------- Referência %d/%d --------\n", i+1, len(resolved))
		b.WriteString(BibTeXEntry(&r))
		b.WriteString("\n")
	}

	b.WriteString("%----------------------------------------------------------------\n")
	fmt.Fprintf(&b, "%% Total de %d referências exportadas\n", len(resolved))
	b.WriteString("% Gerado por Ethnos Academic Database (ethnos.app)\n")
	b.WriteString("% Formato compatível com LaTeX, BibDesk, Mendeley, Zotero\n")
	b.WriteString("%================================================================")

	return b.String()
}

// BibTeXEntry renders a single resolved item as one BibTeX entry.
func BibTeXEntry(r *Resolved) string {
	var b strings.Builder
	entryType := bibtexEntryType(r.WorkType, r.VenueName)

	fmt.Fprintf(&b, "@%s{%s,\n", entryType, CiteKey(r))

	if authors := bibtexAuthors(r); authors != "" {
		bibtexField(&b, "author", authors)
	}
	title := strings.NewReplacer("{", "", "}", "").Replace(r.FullTitle(" - "))
	bibtexField(&b, "title", title)
	if r.Year != "" {
		bibtexField(&b, "year", r.Year)
	}

	switch entryType {
	case "article":
		if r.VenueName != "" {
			bibtexField(&b, "journal", r.VenueName)
		}
		if r.Volume != "" {
			bibtexField(&b, "volume", r.Volume)
		}
		if r.Issue != "" {
			bibtexField(&b, "number", r.Issue)
		}
		if r.Pages != "" {
			bibtexField(&b, "pages", r.Pages)
		}
	case "book":
		if r.Publisher != "" {
			bibtexField(&b, "publisher", r.Publisher)
		}
		if r.Pages != "" {
			bibtexField(&b, "pages", r.Pages)
		}
	case "incollection":
		if r.VenueName != "" {
			bibtexField(&b, "booktitle", r.VenueName)
		}
		if r.Publisher != "" {
			bibtexField(&b, "publisher", r.Publisher)
		}
		if r.Pages != "" {
			bibtexField(&b, "pages", r.Pages)
		}
	case "inproceedings":
		if r.VenueName != "" {
			bibtexField(&b, "booktitle", r.VenueName)
		}
		if r.Pages != "" {
			bibtexField(&b, "pages", r.Pages)
		}
	case "phdthesis":
		if r.Publisher != "" {
			bibtexField(&b, "school", r.Publisher)
		}
	case "techreport":
		if r.Publisher != "" {
			fmt.Fprintf(&b, "  institution = {%s},\n", r.Publisher)
		}
	}

	if r.DOI != "" {
		bibtexField(&b, "doi", r.DOI)
		bibtexField(&b, "url", "https://doi.org/"+r.DOI)
	}
	if r.ISSN != "" {
		bibtexField(&b, "issn", r.ISSN)
	}
	if r.Language != "" && r.Language != "pt" {
		bibtexField(&b, "language", r.Language)
	}
	if r.Abstract != "" {
		clean := strings.NewReplacer("{", "", "}", "", `\`, "").Replace(r.Abstract)
		bibtexField(&b, "abstract", truncate(clean, 300))
	}

	var notes []string
	if r.OpenAccess {
		notes = append(notes, "Open Access")
	}
	if r.PeerReviewed {
		notes = append(notes, "Peer Reviewed")
	}
	if len(notes) > 0 {
		bibtexField(&b, "note", strings.Join(notes, ", "))
	}

	b.WriteString("}\n")
	return b.String()
}

func countEnriched(resolved []Resolved) int {
	n := 0
	for _, r := range resolved {
		if r.Provenance == SourceEnriched {
			n++
		}
	}
	return n
}
