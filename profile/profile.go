// Package profile manages extraction profiles: the identifier marker, link base URL
// and source encoding used to scan a directory of metadata records.
package profile

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultIdentifierTag is the element wrapping OSTI record identifiers.
	DefaultIdentifierTag = "dc:ostiId"

	// DefaultLinkBaseURL is the SciTech Connect full-text prefix for an OSTI identifier.
	DefaultLinkBaseURL = "http://www.osti.gov/scitech/servlets/purl/"

	// DefaultEncoding is the text encoding of downloaded records.
	DefaultEncoding = "utf-8"
)

// Profile describes how identifiers and links are located in source records.
type Profile struct {
	// Name is the profile identifier (e.g., "osti")
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// IdentifierTag is the literal element name around identifier digits
	IdentifierTag string `yaml:"identifier_tag,omitempty" json:"identifier_tag,omitempty"`

	// LinkBaseURL is prepended to an identifier to derive its link
	LinkBaseURL string `yaml:"link_base_url,omitempty" json:"link_base_url,omitempty"`

	// Encoding is the fixed text encoding of source files
	Encoding string `yaml:"encoding,omitempty" json:"encoding,omitempty"`

	// Workers bounds concurrent document scanning; 0 or 1 scans sequentially
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// Default returns the built-in OSTI profile without consulting the embedded files.
func Default() *Profile {
	return &Profile{
		Name:          "osti",
		Description:   "OSTI SciTech Connect records",
		IdentifierTag: DefaultIdentifierTag,
		LinkBaseURL:   DefaultLinkBaseURL,
		Encoding:      DefaultEncoding,
	}
}

// GetIdentifierTag returns the identifier tag with a default.
func (p *Profile) GetIdentifierTag() string {
	if p.IdentifierTag != "" {
		return p.IdentifierTag
	}
	return DefaultIdentifierTag
}

// GetLinkBaseURL returns the link base URL with a default.
func (p *Profile) GetLinkBaseURL() string {
	if p.LinkBaseURL != "" {
		return p.LinkBaseURL
	}
	return DefaultLinkBaseURL
}

// GetEncoding returns the source encoding with a default.
func (p *Profile) GetEncoding() string {
	if p.Encoding != "" {
		return p.Encoding
	}
	return DefaultEncoding
}

// Validate reports the first problem that would prevent the profile from being used.
func (p *Profile) Validate() error {
	tag := p.GetIdentifierTag()
	if strings.ContainsAny(tag, "<>/ \t\r\n") {
		return fmt.Errorf("profile %q: identifier_tag %q must be a bare element name", p.Name, tag)
	}

	u, err := url.Parse(p.GetLinkBaseURL())
	if err != nil {
		return fmt.Errorf("profile %q: link_base_url: %w", p.Name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("profile %q: link_base_url %q must be an absolute http(s) URL", p.Name, p.GetLinkBaseURL())
	}

	if _, err := htmlindex.Get(p.GetEncoding()); err != nil {
		return fmt.Errorf("profile %q: unknown encoding %q", p.Name, p.GetEncoding())
	}

	if p.Workers < 0 {
		return fmt.Errorf("profile %q: workers must not be negative", p.Name)
	}

	return nil
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.osti-extract is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the osti-extract configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".osti-extract"), nil
}

// ProfilesDir returns the user profiles directory.
func ProfilesDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "profiles"), nil
}

// LoadFile reads a profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	p, err := parse(data)
	if err != nil {
		return nil, err
	}

	// Use filename without extension as profile name if not set
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

func parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	return &p, nil
}
