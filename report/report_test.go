package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/osti-extract/extract"
)

type summary struct {
	Mode        string  `json:"mode"`
	Directory   string  `json:"directory"`
	Status      string  `json:"status"`
	Error       string  `json:"error"`
	TotalValues float64 `json:"total_values"`
	DurationMS  float64 `json:"duration_ms"`
	Documents   []struct {
		Name   string  `json:"name"`
		Values float64 `json:"values"`
	} `json:"documents"`
}

func decode(t *testing.T, data []byte) summary {
	t.Helper()
	var s summary
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, data)
	}
	return s
}

func TestWriteSuccess(t *testing.T) {
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	res := &extract.Result{
		Mode: extract.IdentifierLinks,
		Dir:  "/data/batch",
		Documents: []extract.DocumentResult{
			{Name: "a.xml", Values: 1},
			{Name: "b.xml", Values: 3},
		},
		Started:  start,
		Finished: start.Add(1500 * time.Millisecond),
	}

	var buf bytes.Buffer
	if err := Write(&buf, extract.IdentifierLinks, "/data/batch", res, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	s := decode(t, buf.Bytes())
	if s.Mode != "identifier_links" || s.Directory != "/data/batch" {
		t.Errorf("mode/directory = %q/%q", s.Mode, s.Directory)
	}
	if s.Status != StatusOK || s.Error != "" {
		t.Errorf("status = %q, error = %q", s.Status, s.Error)
	}
	if s.TotalValues != 4 {
		t.Errorf("total_values = %v, want 4", s.TotalValues)
	}
	if s.DurationMS != 1500 {
		t.Errorf("duration_ms = %v, want 1500", s.DurationMS)
	}
	if len(s.Documents) != 2 || s.Documents[1].Name != "b.xml" || s.Documents[1].Values != 3 {
		t.Errorf("documents = %+v", s.Documents)
	}
}

func TestWriteFailure(t *testing.T) {
	runErr := &extract.NoMatchError{Mode: extract.Identifiers, Document: "c.xml"}

	var buf bytes.Buffer
	if err := Write(&buf, extract.Identifiers, "/data", nil, runErr); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	s := decode(t, buf.Bytes())
	if s.Status != StatusFailed {
		t.Errorf("status = %q, want %q", s.Status, StatusFailed)
	}
	if s.Error != "c.xml: identifier not found" {
		t.Errorf("error = %q", s.Error)
	}
	if len(s.Documents) != 0 || s.TotalValues != 0 {
		t.Errorf("documents = %+v, total = %v", s.Documents, s.TotalValues)
	}
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte("stale content that is longer than nothing"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, extract.Links, "/data", &extract.Result{}, nil); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s := decode(t, data); s.Mode != "links" {
		t.Errorf("mode = %q, want links", s.Mode)
	}
}
