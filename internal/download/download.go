// Package download implements the file-download collaborator: given
// content, a filename, and a MIME type it triggers a client-side save.
package download

import (
	"fmt"
	"os"
	"path/filepath"
)

// Saver persists an export payload for the user.
type Saver interface {
	Save(content []byte, filename, mimeType string) error
}

// DirSaver writes downloads into a directory, atomically (temp file plus
// rename), creating the directory on first use.
type DirSaver struct {
	Dir string
}

// Save implements Saver. The MIME type is not needed on a filesystem; the
// filename's extension carries the format.
func (d *DirSaver) Save(content []byte, filename, mimeType string) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	target := filepath.Join(d.Dir, filename)
	tmp, err := os.CreateTemp(d.Dir, ".tmp-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing export: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming export: %w", err)
	}
	return nil
}

// MemorySaver captures saves for tests.
type MemorySaver struct {
	Filename string
	MimeType string
	Content  []byte
	Saves    int
}

func (m *MemorySaver) Save(content []byte, filename, mimeType string) error {
	m.Filename = filename
	m.MimeType = mimeType
	m.Content = content
	m.Saves++
	return nil
}
