// Package report renders a JSON summary of an extraction run.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/osti-extract/extract"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Build converts a run result and its error into a protobuf Struct.
// res may be nil when the run failed before any document was examined.
func Build(mode extract.Mode, dir string, res *extract.Result, runErr error) (*structpb.Struct, error) {
	fields := map[string]any{
		"mode":      mode.Name(),
		"directory": dir,
		"status":    StatusOK,
	}

	if runErr != nil {
		fields["status"] = StatusFailed
		fields["error"] = runErr.Error()
	}

	docs := []any{}
	total := 0
	if res != nil {
		for _, d := range res.Documents {
			docs = append(docs, map[string]any{
				"name":   d.Name,
				"values": d.Values,
			})
		}
		total = res.Total()
		fields["started"] = res.Started.UTC().Format(time.RFC3339Nano)
		fields["finished"] = res.Finished.UTC().Format(time.RFC3339Nano)
		fields["duration_ms"] = float64(res.Finished.Sub(res.Started).Microseconds()) / 1000
	}
	fields["documents"] = docs
	fields["total_values"] = total

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	return s, nil
}

// Write encodes the run summary as indented JSON.
func Write(w io.Writer, mode extract.Mode, dir string, res *extract.Result, runErr error) error {
	s, err := Build(mode, dir, res, runErr)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// WriteFile writes the run summary to path, replacing any previous report.
func WriteFile(path string, mode extract.Mode, dir string, res *extract.Result, runErr error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()

	return Write(f, mode, dir, res, runErr)
}
