package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/osti-extract/extract"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--config-dir", t.TempDir()))

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeRecord(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestExtractIdentifierLinks(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a.xml", "<r><dc:ostiId>111</dc:ostiId></r>")
	writeRecord(t, dir, "b.xml", "<r><dc:ostiId>222</dc:ostiId></r>")

	out, err := execute(t, "--identifier_links", dir)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if out != "Processed file: a.xml\nProcessed file: b.xml\n" {
		t.Errorf("stdout = %q", out)
	}

	got := readFile(t, filepath.Join(dir, "identifier_links", "identifier_links_all.txt"))
	want := "http://www.osti.gov/scitech/servlets/purl/111\nhttp://www.osti.gov/scitech/servlets/purl/222\n"
	if got != want {
		t.Errorf("identifier_links_all.txt = %q, want %q", got, want)
	}
}

func TestExtractModeAfterFolder(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a.xml", "<r><dc:ostiId>7</dc:ostiId></r>")

	if _, err := execute(t, dir, "--identifiers"); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "identifiers", "a_identifiers.txt")); got != "7\n" {
		t.Errorf("a_identifiers.txt = %q", got)
	}
}

func TestExtractNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "c.xml", "<r><dc:title>Untitled</dc:title></r>")

	_, err := execute(t, "--identifiers", dir)
	var nm *extract.NoMatchError
	if !errors.As(err, &nm) {
		t.Fatalf("error = %v, want *NoMatchError", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "identifiers")); !os.IsNotExist(statErr) {
		t.Errorf("identifiers/ exists after failed run")
	}
}

func TestExtractUsageErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"mode without folder", []string{"--identifiers"}},
		{"folder without mode", []string{dir}},
		{"two folders", []string{"--links", dir, dir}},
		{"two modes", []string{"--links", "--identifiers", dir}},
		{"no arguments", []string{}},
		{"bad workers value", []string{"--links", "--workers", "many", dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			var ue *extract.UsageError
			if !errors.As(err, &ue) {
				t.Fatalf("error = %v, want *UsageError", err)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("usage errors touched the folder: %v", entries)
	}
}

func TestExtractUnknownOption(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "--identifier", dir)
	var um *extract.UnknownModeError
	if !errors.As(err, &um) {
		t.Fatalf("error = %v, want *UnknownModeError", err)
	}
	if err.Error() != "unknown option: --identifier" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExtractReport(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a.xml", "<r><dc:ostiId>1</dc:ostiId><dc:ostiId>2</dc:ostiId></r>")
	writeRecord(t, dir, "b.xml", "<r/>")
	reportPath := filepath.Join(t.TempDir(), "run.json")

	_, err := execute(t, "--identifiers", dir, "--report", reportPath)
	if err == nil {
		t.Fatal("execute succeeded, want NoMatchError for b.xml")
	}

	var summary struct {
		Status      string  `json:"status"`
		Error       string  `json:"error"`
		TotalValues float64 `json:"total_values"`
	}
	if err := json.Unmarshal([]byte(readFile(t, reportPath)), &summary); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if summary.Status != "failed" || summary.Error != "b.xml: identifier not found" || summary.TotalValues != 2 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestExtractWorkersFlag(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a.xml", "<r><dc:ostiId>10</dc:ostiId></r>")
	writeRecord(t, dir, "b.xml", "<r><dc:ostiId>20</dc:ostiId></r>")
	writeRecord(t, dir, "c.xml", "<r><dc:ostiId>30</dc:ostiId></r>")

	out, err := execute(t, "--identifiers", dir, "--workers", "3")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if out != "Processed file: a.xml\nProcessed file: b.xml\nProcessed file: c.xml\n" {
		t.Errorf("stdout = %q", out)
	}

	if _, err := execute(t, "--identifiers", dir, "--workers", "-1"); err == nil {
		t.Error("negative --workers accepted")
	}
}

func TestExtractProfileFile(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "a.xml", "<r><dc:recordId>5</dc:recordId></r>")

	profileDir := t.TempDir()
	writeRecord(t, profileDir, "mirror.yaml", "identifier_tag: dc:recordId\nlink_base_url: https://mirror.example.org/purl/\n")
	profilePath := filepath.Join(profileDir, "mirror.yaml")

	if _, err := execute(t, "--identifier_links", dir, "--profile-file", profilePath); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	got := readFile(t, filepath.Join(dir, "identifier_links", "a_identifier_links.txt"))
	if got != "https://mirror.example.org/purl/5\n" {
		t.Errorf("a_identifier_links.txt = %q", got)
	}
}

func TestExtractUnknownProfile(t *testing.T) {
	_, err := execute(t, "--links", t.TempDir(), "--profile", "nope")
	if err == nil || !strings.Contains(err.Error(), "unknown profile: nope") {
		t.Errorf("error = %v, want unknown profile", err)
	}
}

func TestExtractFolderWithCommandLikeName(t *testing.T) {
	for _, name := range []string{"modes", "profiles", "help", "completion"} {
		t.Run(name, func(t *testing.T) {
			parent := t.TempDir()
			dir := filepath.Join(parent, name)
			if err := os.Mkdir(dir, 0755); err != nil {
				t.Fatal(err)
			}
			writeRecord(t, dir, "a.xml", "<r><dc:ostiId>42</dc:ostiId></r>")
			chdir(t, parent)

			out, err := execute(t, "--identifiers", name)
			if err != nil {
				t.Fatalf("execute failed: %v", err)
			}
			if out != "Processed file: a.xml\n" {
				t.Errorf("stdout = %q", out)
			}
			if got := readFile(t, filepath.Join(dir, "identifiers", "a_identifiers.txt")); got != "42\n" {
				t.Errorf("a_identifiers.txt = %q", got)
			}
		})
	}
}

func TestListProfiles(t *testing.T) {
	out, err := execute(t, "--list-profiles")
	if err != nil {
		t.Fatalf("--list-profiles failed: %v", err)
	}
	if !strings.Contains(out, "  osti - ") {
		t.Errorf("--list-profiles output = %q", out)
	}

	out, err = execute(t, "--show-profile", "osti")
	if err != nil {
		t.Fatalf("--show-profile failed: %v", err)
	}
	for _, want := range []string{"identifier_tag: dc:ostiId", "link_base_url: http://www.osti.gov/scitech/servlets/purl/", "encoding: utf-8"} {
		if !strings.Contains(out, want) {
			t.Errorf("--show-profile output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "--show-profile", "missing"); err == nil {
		t.Error("--show-profile missing succeeded")
	}
}

func TestListModes(t *testing.T) {
	out, err := execute(t, "--list-modes")
	if err != nil {
		t.Fatalf("--list-modes failed: %v", err)
	}
	for _, want := range []string{"--identifiers", "--identifier_links", "--links", "links/links_all.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("--list-modes output missing %q:\n%s", want, out)
		}
	}
}

func TestListingFlagUsageErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"two listings", []string{"--list-modes", "--list-profiles"}},
		{"listing with folder", []string{"--list-modes", dir}},
		{"listing with mode", []string{"--list-profiles", "--links"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			var ue *extract.UsageError
			if !errors.As(err, &ue) {
				t.Fatalf("error = %v, want *UsageError", err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
