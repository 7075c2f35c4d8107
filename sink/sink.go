// Package sink appends extracted values to per-document and aggregate text files.
//
// Every value is written with its own open-append-close cycle. No handle is held
// between calls, so the files on disk always reflect exactly the values persisted
// so far, and repeated runs keep accumulating lines.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lehigh-university-libraries/osti-extract/document"
)

// AggregateSuffix ends the name of the mode-wide output file.
const AggregateSuffix = "_all.txt"

// Sink writes output files under a root directory.
type Sink struct {
	root  string
	permF os.FileMode
	permD os.FileMode

	// mu keeps the two appends of one value together when callers share a sink.
	mu sync.Mutex
}

// New returns a sink rooted at dir, normally the scanned input directory.
func New(dir string) *Sink {
	return &Sink{root: dir, permF: 0o644, permD: 0o755}
}

// Root returns the directory the sink writes under.
func (s *Sink) Root() string {
	return s.root
}

// Dir returns the output subdirectory for a mode.
func (s *Sink) Dir(mode string) string {
	return filepath.Join(s.root, mode)
}

// DocumentPath returns <root>/<mode>/<stem>_<mode>.txt for a source file name.
func (s *Sink) DocumentPath(mode, source string) string {
	return filepath.Join(s.Dir(mode), document.Stem(source)+"_"+mode+".txt")
}

// AggregatePath returns <root>/<mode>/<mode>_all.txt.
func (s *Sink) AggregatePath(mode string) string {
	return filepath.Join(s.Dir(mode), mode+AggregateSuffix)
}

// Persist appends value and a newline to the source's per-document file and to
// the mode aggregate file, creating the mode directory if needed. Both appends are
// attempted; their errors are joined.
func (s *Sink) Persist(mode, source, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir(mode), s.permD); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	line := []byte(value + "\n")
	return errors.Join(
		s.appendLine(s.DocumentPath(mode, source), line),
		s.appendLine(s.AggregatePath(mode), line),
	)
}

func (s *Sink) appendLine(path string, line []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, s.permF)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}
