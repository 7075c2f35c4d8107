// Package extract runs identifier and link extraction over a directory of records.
package extract

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/osti-extract/link"
	"github.com/lehigh-university-libraries/osti-extract/pattern"
)

// Mode selects what is extracted from each document.
type Mode int

const (
	// Identifiers writes the identifier digits found in each record.
	Identifiers Mode = iota + 1

	// IdentifierLinks writes a link derived from each identifier.
	IdentifierLinks

	// Links writes links found verbatim as element text.
	Links
)

var modeNames = map[Mode]string{
	Identifiers:     "identifiers",
	IdentifierLinks: "identifier_links",
	Links:           "links",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{Identifiers, IdentifierLinks, Links}
}

// ParseMode resolves a mode from its name, with or without the leading "--".
func ParseMode(s string) (Mode, error) {
	name := strings.TrimPrefix(s, "--")
	for _, m := range Modes() {
		if m.Name() == name {
			return m, nil
		}
	}
	return 0, &UnknownModeError{Option: s}
}

// Name is the output folder name and file suffix for the mode.
func (m Mode) Name() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Flag is the command line option selecting the mode.
func (m Mode) Flag() string {
	return "--" + m.Name()
}

func (m Mode) String() string {
	return m.Name()
}

// Description returns a one-line summary of the mode.
func (m Mode) Description() string {
	switch m {
	case Identifiers:
		return "identifier digits from each identifier marker"
	case IdentifierLinks:
		return "download links derived from each identifier"
	case Links:
		return "download links found as element text"
	default:
		return ""
	}
}

// NotFound describes what a document lacked when the mode matched nothing.
func (m Mode) NotFound() string {
	if m == Links {
		return "links not found"
	}
	return "identifier not found"
}

// values applies the mode's matching rule, and derivation when needed, to text.
func (m Mode) values(text string, matcher *pattern.Matcher, deriver link.Deriver) []string {
	switch m {
	case Identifiers:
		return matcher.FindIdentifiers(text)
	case IdentifierLinks:
		ids := matcher.FindIdentifiers(text)
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = deriver.Derive(id)
		}
		return out
	case Links:
		return matcher.FindLinks(text)
	default:
		return nil
	}
}
