package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/quizbank/internal/session"
	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// tableHeader is the list view header row.
func tableHeader() []string {
	header := []string{types.FieldSL}
	for _, f := range types.ContentFields {
		header = append(header, types.Label(f))
	}
	return header
}

// renderTable writes rows as an aligned table. Cells are cut to two words
// and rows missing SL, Category or Question are skipped.
func renderTable(w io.Writer, rows []types.Question) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	for _, q := range rows {
		if !session.Renderable(q) {
			continue
		}
		cells := []string{q.SL}
		for _, f := range types.ContentFields {
			v, _ := q.Get(f)
			cells = append(cells, cell(v))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cell(v string) string {
	v = strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(v)
	return session.Truncate(v)
}

// renderDetail writes every field of q untruncated, one per line.
func renderDetail(w io.Writer, q types.Question) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s:\t%s\n", types.FieldSL, q.SL)
	for _, f := range types.ContentFields {
		v, _ := q.Get(f)
		fmt.Fprintf(tw, "%s:\t%s\n", types.Label(f), v)
	}
	return tw.Flush()
}

// renderFooter summarizes a projection below the table.
func renderFooter(w io.Writer, p session.Projection) {
	if p.Matched == 0 {
		fmt.Fprintf(w, "No questions in %s (%d total).\n", p.Category, p.Total)
		return
	}
	if p.Pages > 1 {
		fmt.Fprintf(w, "Page %d of %d. Showing %d of %d question(s) in %s (%d total).\n",
			p.Page+1, p.Pages, len(p.Rows), p.Matched, p.Category, p.Total)
		return
	}
	fmt.Fprintf(w, "Showing %d of %d question(s) in %s.\n", len(p.Rows), p.Total, p.Category)
}

// listOutput is the --json form of a projection.
type listOutput struct {
	Questions []types.Question `json:"questions"`
	Total     int              `json:"total"`
	Matched   int              `json:"matched"`
	Page      int              `json:"page"`
	Pages     int              `json:"pages"`
	Category  string           `json:"category"`
}

func renderJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func projectionJSON(p session.Projection) listOutput {
	rows := p.Rows
	if rows == nil {
		rows = []types.Question{}
	}
	return listOutput{
		Questions: rows,
		Total:     p.Total,
		Matched:   p.Matched,
		Page:      p.Page + 1,
		Pages:     p.Pages,
		Category:  p.Category,
	}
}
