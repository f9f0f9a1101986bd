// Package archive exports a question collection as JSON, JSONL, YAML or
// CSV to a local directory or an S3-compatible bucket.
package archive

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// Format selects the export encoding.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatJSONL, FormatYAML, FormatCSV}

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat resolves a format name, case-insensitively. "yml" is accepted
// as YAML.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string { return string(f) }

// ContentType returns the MIME type stored alongside uploaded objects.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatJSONL:
		return "application/x-ndjson"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv"
	}
	return "application/octet-stream"
}

// document is the JSON and YAML envelope. Its JSON form is accepted as-is
// by POST /save-questions.
type document struct {
	Questions []types.Question `json:"questions" yaml:"questions"`
}

// Encode writes questions to w in format f.
func Encode(w io.Writer, f Format, questions []types.Question) error {
	if questions == nil {
		questions = []types.Question{}
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Questions: questions})
	case FormatJSONL:
		return encodeJSONL(w, questions)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Questions: questions}); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return encodeCSV(w, questions)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func encodeJSONL(w io.Writer, questions []types.Question) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, q := range questions {
		if err := enc.Encode(q); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// csvHeader uses the labels the importer accepts, led by SL.
func csvHeader() []string {
	header := []string{types.FieldSL}
	for _, f := range types.ContentFields {
		header = append(header, types.Label(f))
	}
	return header
}

// encodeCSV writes RFC 4180 CSV. Fields containing commas are quoted, which
// the line-splitting importer does not understand; such exports are for
// spreadsheets, not for re-import.
func encodeCSV(w io.Writer, questions []types.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader()); err != nil {
		return err
	}
	row := make([]string, 0, len(types.ContentFields)+1)
	for _, q := range questions {
		row = append(row[:0], q.SL)
		for _, f := range types.ContentFields {
			v, _ := q.Get(f)
			row = append(row, v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
