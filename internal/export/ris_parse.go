package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// RISRecord is one record recovered from RIS content.
type RISRecord struct {
	Type    string
	WorkID  int
	Title   string
	Authors []string
	Year    string
	DOI     string
}

// ParseRIS scans RIS content into records. Only the tags this package
// emits are recovered; unknown tags are skipped.
func ParseRIS(r io.Reader) ([]RISRecord, error) {
	var (
		records []RISRecord
		current *RISRecord
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 6 || line[2:6] != "  - " {
			continue
		}
		tag, value := line[:2], strings.TrimSpace(line[6:])

		if tag == "TY" {
			records = append(records, RISRecord{Type: value})
			current = &records[len(records)-1]
			continue
		}
		if current == nil {
			continue
		}
		switch tag {
		case "ER":
			current = nil
		case "ID":
			current.WorkID, _ = strconv.Atoi(value)
		case "TI":
			current.Title = value
		case "AU":
			current.Authors = append(current.Authors, value)
		case "PY":
			current.Year = value
		case "DO":
			current.DOI = NormalizeDOI(value)
		}
	}
	return records, scanner.Err()
}
