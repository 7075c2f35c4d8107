// Package document reads source metadata records from a directory.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Extension is the suffix of source record files.
const Extension = ".xml"

// Document is the full text of one source record.
type Document struct {
	// Name is the base file name, e.g. "a.xml"
	Name string

	// Content is the decoded file text
	Content string
}

// Stem returns the file name without its extension.
func (d *Document) Stem() string {
	return Stem(d.Name)
}

// dcMarkers are substrings that identify Dublin Core metadata.
var dcMarkers = [][]byte{
	[]byte("purl.org/dc/elements"),
	[]byte("purl.org/dc/terms"),
	[]byte("dc:"),
	[]byte("dcterms:"),
	[]byte("<metadata"),
}

// IsDublinCore reports whether the content looks like Dublin Core XML.
func (d *Document) IsDublinCore() bool {
	peek := bytes.TrimSpace([]byte(d.Content))
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}

	for _, m := range dcMarkers {
		if bytes.Contains(peek, m) {
			return true
		}
	}
	return false
}

// Stem returns name without its final extension.
func Stem(name string) string {
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// List returns the paths of the *.xml files directly inside dir,
// sorted by file name. The suffix match is case-sensitive and hidden
// files (names starting with ".") are skipped.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Extension) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

// Read loads the file at path and decodes it from the named encoding.
func Read(path, charset string) (*Document, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", charset, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	// The UTF-8 decoder substitutes U+FFFD for bad bytes; reject them instead.
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		if _, _, err := transform.Bytes(encoding.UTF8Validator, raw); err != nil {
			return nil, fmt.Errorf("decoding %s as %s: %w", filepath.Base(path), charset, err)
		}
	}

	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", filepath.Base(path), charset, err)
	}

	return &Document{
		Name:    filepath.Base(path),
		Content: string(text),
	}, nil
}
