package export

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	bibEntryStartRE = regexp.MustCompile(`@\w+\{([^,]+),`)
	bibFieldRE      = regexp.MustCompile(`(?i)^\s*(\w+)\s*=\s*[\{"](.*?)[\}"],?\s*$`)
	bibKeyIDRE      = regexp.MustCompile(`work(\d+)$`)
)

// BibEntry is one entry recovered from BibTeX content.
type BibEntry struct {
	Key    string
	WorkID int // parsed from the citation key, 0 when absent
	Title  string
	Year   string
	DOI    string
}

// ParseBibTeX scans BibTeX content and recovers the key fields of each
// entry. It is line-oriented and only understands the shape this package
// emits; it is not a general BibTeX parser.
func ParseBibTeX(r io.Reader) ([]BibEntry, error) {
	var entries []BibEntry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := bibEntryStartRE.FindStringSubmatch(line); len(m) > 1 {
			key := strings.TrimSpace(m[1])
			e := BibEntry{Key: key}
			if idm := bibKeyIDRE.FindStringSubmatch(key); len(idm) > 1 {
				e.WorkID, _ = strconv.Atoi(idm[1])
			}
			entries = append(entries, e)
			continue
		}
		if len(entries) == 0 {
			continue
		}
		if m := bibFieldRE.FindStringSubmatch(line); len(m) > 2 {
			e := &entries[len(entries)-1]
			switch strings.ToLower(m[1]) {
			case "title":
				e.Title = m[2]
			case "year":
				e.Year = m[2]
			case "doi":
				e.DOI = NormalizeDOI(m[2])
			}
		}
	}
	return entries, scanner.Err()
}

// BibIndex indexes the entries of an existing .bib file so appended
// exports can skip works that are already present.
type BibIndex struct {
	keys map[string]bool
	dois map[string]bool
}

// NewBibIndex returns an empty index.
func NewBibIndex() *BibIndex {
	return &BibIndex{
		keys: make(map[string]bool),
		dois: make(map[string]bool),
	}
}

// Add indexes one parsed entry.
func (idx *BibIndex) Add(e BibEntry) {
	idx.keys[e.Key] = true
	if e.DOI != "" {
		idx.dois[e.DOI] = true
	}
}

// Has reports whether a work is already in the indexed file. DOI is the
// primary match; the citation key is the fallback for works without one.
func (idx *BibIndex) Has(r *Resolved) bool {
	if r.DOI != "" && idx.dois[NormalizeDOI(r.DOI)] {
		return true
	}
	return idx.keys[CiteKey(r)]
}

// Len returns the number of indexed entries.
func (idx *BibIndex) Len() int {
	return len(idx.keys)
}

// IndexBibFile scans an existing .bib file and indexes its citation keys
// and DOIs. A missing file yields an empty index, not an error.
func IndexBibFile(path string) (*BibIndex, error) {
	idx := NewBibIndex()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer f.Close()

	entries, err := ParseBibTeX(f)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		idx.Add(e)
	}
	return idx, nil
}

// NormalizeDOI strips resolver prefixes and lowercases a DOI so that
// spellings like "https://doi.org/10.1590/X" and "10.1590/x" compare equal.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
