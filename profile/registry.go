package profile

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// Registry holds loaded profiles.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry with the embedded profiles loaded.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]*Profile),
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profiles: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		p, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}

		if p.Name == "" {
			p.Name = trimYAML(entry.Name())
		}
		r.profiles[p.Name] = p
	}

	return r, nil
}

// LoadUserProfiles adds the profiles found in the user profiles directory.
// A missing directory is not an error. User profiles override embedded ones.
func (r *Registry) LoadUserProfiles() error {
	dir, err := ProfilesDir()
	if err != nil {
		return err
	}
	return r.LoadFromDirectory(dir)
}

// LoadFromDirectory loads all profiles from a directory.
func (r *Registry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}

		p, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping invalid profile", "file", entry.Name(), "err", err)
			continue
		}
		r.profiles[p.Name] = p
	}

	return nil
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// Register adds a profile to the registry.
func (r *Registry) Register(p *Profile) {
	r.profiles[p.Name] = p
}

// List returns all registered profile names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func trimYAML(name string) string {
	return strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
}
