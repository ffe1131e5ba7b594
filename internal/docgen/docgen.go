// Package docgen defines the document-generation collaborator consumed by
// the formatted-reference export: an ordered sequence of paragraph
// descriptors grouped into sections, rendered by a Generator into an
// opaque binary blob. The exporter never inspects the rendered bytes.
package docgen

import "strings"

// Alignment positions a paragraph on the page.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignJustify
	AlignCenter
)

// Paragraph is one paragraph descriptor: plain text plus minimal styling
// markers.
type Paragraph struct {
	Text      string
	Bold      bool
	Italic    bool
	Alignment Alignment
}

// Section is an ordered run of paragraphs.
type Section struct {
	Paragraphs []Paragraph
}

// Document is the full document model handed to a Generator.
type Document struct {
	Sections []Section
}

// Generator renders a document model into a binary payload.
type Generator interface {
	// Render returns the rendered bytes and the MIME type they carry.
	Render(doc Document) ([]byte, string, error)
}

// TextGenerator renders the document model as plain UTF-8 text: one line
// per paragraph, a blank line between sections. It is the built-in
// renderer; richer binary formats plug in behind the same interface.
type TextGenerator struct{}

// Render implements Generator.
func (TextGenerator) Render(doc Document) ([]byte, string, error) {
	var b strings.Builder
	for i, sec := range doc.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, p := range sec.Paragraphs {
			b.WriteString(p.Text)
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), "text/plain", nil
}
