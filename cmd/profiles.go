package cmd

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/osti-extract/profile"
)

func listProfiles(out io.Writer) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Available profiles:")
	for _, name := range registry.List() {
		p, _ := registry.Get(name)
		desc := ""
		if p.Description != "" {
			desc = " - " + p.Description
		}
		fmt.Fprintf(out, "  %s%s\n", name, desc)
	}
	return nil
}

func showProfile(out io.Writer, name string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	p, ok := registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown profile: %s", name)
	}

	// Print with defaults filled in
	resolved := *p
	resolved.IdentifierTag = p.GetIdentifierTag()
	resolved.LinkBaseURL = p.GetLinkBaseURL()
	resolved.Encoding = p.GetEncoding()

	data, err := yaml.Marshal(&resolved)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(data))
	return nil
}

func loadRegistry() (*profile.Registry, error) {
	registry, err := profile.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := registry.LoadUserProfiles(); err != nil {
		return nil, err
	}
	return registry, nil
}
