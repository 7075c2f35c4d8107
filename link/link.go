// Package link derives full-text download links from record identifiers.
package link

import "github.com/lehigh-university-libraries/osti-extract/profile"

// Deriver builds links by appending an identifier to a fixed base URL.
type Deriver struct {
	BaseURL string
}

// FromProfile returns a deriver using the profile's link base URL.
func FromProfile(p *profile.Profile) Deriver {
	return Deriver{BaseURL: p.GetLinkBaseURL()}
}

// Default returns the OSTI SciTech Connect deriver.
func Default() Deriver {
	return Deriver{BaseURL: profile.DefaultLinkBaseURL}
}

// Derive returns BaseURL immediately followed by id. No separator is inserted.
func (d Deriver) Derive(id string) string {
	return d.BaseURL + id
}
