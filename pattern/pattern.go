// Package pattern locates identifier markers and full-text links in raw record text.
//
// Matching is purely textual. Documents are not parsed as XML, so nested tags,
// attributes or namespace declarations on the marker element are not recognized.
package pattern

import (
	"regexp"

	"github.com/lehigh-university-libraries/osti-extract/profile"
)

// Matcher finds identifiers and links in document text.
type Matcher struct {
	identifier *regexp.Regexp
	link       *regexp.Regexp
}

// New builds a matcher for identifiers wrapped in <tag>...</tag> and links made of
// baseURL followed by digits appearing as element text (between '>' and '<').
func New(tag, baseURL string) *Matcher {
	t := regexp.QuoteMeta(tag)
	return &Matcher{
		// s flag: the whole multi-line document is one scan region
		identifier: regexp.MustCompile(`(?s)<` + t + `>(\d+)</` + t + `>`),
		link:       regexp.MustCompile(`(?s)>(` + regexp.QuoteMeta(baseURL) + `\d+)<`),
	}
}

// FromProfile builds a matcher for the profile's tag and base URL.
func FromProfile(p *profile.Profile) *Matcher {
	return New(p.GetIdentifierTag(), p.GetLinkBaseURL())
}

// Default returns a matcher for OSTI records.
func Default() *Matcher {
	return New(profile.DefaultIdentifierTag, profile.DefaultLinkBaseURL)
}

// FindIdentifiers returns every identifier in document order, duplicates included.
// The result is an empty slice when nothing matches.
func (m *Matcher) FindIdentifiers(text string) []string {
	return submatches(m.identifier, text)
}

// FindLinks returns every link that is the text content of an element, in document
// order with duplicates.
func (m *Matcher) FindLinks(text string) []string {
	return submatches(m.link, text)
}

func submatches(re *regexp.Regexp, text string) []string {
	found := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(found))
	for _, m := range found {
		out = append(out, m[1])
	}
	return out
}
