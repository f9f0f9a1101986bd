// Package csvimport turns user-supplied CSV text into question records.
//
// The format is deliberately naive: lines split on '\n', fields split on ','.
// Quoted commas, embedded newlines and escapes are not supported; a field
// containing a comma shifts every later field of its row.
package csvimport

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// ErrNoData is reported by callers when Import yields no records.
var ErrNoData = errors.New("no valid data found in the file")

// headerFields maps accepted header names to question fields, in lookup
// order: the spaced label wins over the compact name when both are present.
var headerFields = []struct {
	field   string
	headers []string
}{
	{types.FieldCategory, []string{"Category"}},
	{types.FieldQuestion, []string{"Question"}},
	{types.FieldOptionA, []string{"Option A", "OptionA"}},
	{types.FieldOptionB, []string{"Option B", "OptionB"}},
	{types.FieldOptionC, []string{"Option C", "OptionC"}},
	{types.FieldOptionD, []string{"Option D", "OptionD"}},
	{types.FieldAnswer, []string{"Answer"}},
	{types.FieldReference, []string{"Reference"}},
	{types.FieldApplication, []string{"Application"}},
}

// ParseRows splits text into rows keyed by header name. The first non-blank
// line is the header; every later non-blank line becomes one row. A row
// shorter than the header yields "" for the missing positions; extra values
// are dropped. Each value is trimmed and loses one leading and one trailing
// double quote.
func ParseRows(text string) []map[string]string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	rows := []map[string]string{}
	if len(lines) == 0 {
		return rows
	}

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			v := ""
			if i < len(values) {
				v = unquote(strings.TrimSpace(values[i]))
			}
			row[h] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// unquote strips a single leading and a single trailing double quote.
func unquote(v string) string {
	v = strings.TrimPrefix(v, `"`)
	return strings.TrimSuffix(v, `"`)
}

// Import parses text and maps each row onto a Question. Unrecognized headers
// are ignored and fields without a header stay empty. SL and ID are left for
// the client cache to assign. Header-only or empty input returns an empty,
// non-nil slice.
func Import(text string) []types.Question {
	rows := ParseRows(text)
	out := make([]types.Question, 0, len(rows))
	for _, row := range rows {
		var q types.Question
		for _, hf := range headerFields {
			for _, h := range hf.headers {
				if v, ok := row[h]; ok {
					// Field names are fixed above; Set cannot fail.
					_ = q.Set(hf.field, v)
					break
				}
			}
		}
		out = append(out, q)
	}
	return out
}

// ImportReader reads r to the end and imports its contents.
func ImportReader(r io.Reader) ([]types.Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return Import(string(data)), nil
}
