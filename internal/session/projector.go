package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// AllCategories is the category selection that disables filtering.
const AllCategories = "All"

// ShowAll is the display count that disables truncation.
const ShowAll = "All"

// Display defaults.
const (
	DefaultDisplayCount = 20
	DefaultPageSize     = 10
)

// DisplayChoices lists the display counts offered to the user.
var DisplayChoices = []string{"20", "50", "100", ShowAll}

// ErrInvalidDisplayCount is returned by ParseDisplayCount.
var ErrInvalidDisplayCount = errors.New("display count must be a positive number or All")

// Source is a handle to the records a Projector reads.
type Source interface {
	Snapshot() []types.Question
}

// Projector derives the rows shown to the user. It has no side effects.
//
// Category filters by exact, case-sensitive equality unless it is
// AllCategories or empty. Limit keeps the first N filtered records; 0 keeps
// all. When PageSize is positive the result is further cut into pages and
// Page (zero-based) selects one.
type Projector struct {
	Category string
	Limit    int
	PageSize int
	Page     int
}

// Projection is one derived view.
type Projection struct {
	Rows     []types.Question // Records to show, in list order.
	Total    int              // Records in the cache.
	Matched  int              // Records left after filtering and truncation.
	Page     int              // Zero-based page shown; 0 when not paginating.
	Pages    int              // Page count; 1 when not paginating and Matched > 0.
	Category string           // Effective category selection.
}

// Project reads src and returns the view.
func (p Projector) Project(src Source) Projection {
	all := src.Snapshot()
	filtered := p.truncate(Filter(all, p.Category))

	proj := Projection{
		Total:    len(all),
		Matched:  len(filtered),
		Category: p.category(),
	}
	if p.PageSize <= 0 {
		proj.Rows = filtered
		if len(filtered) > 0 {
			proj.Pages = 1
		}
		return proj
	}
	proj.Page = p.Page
	proj.Pages = PageCount(len(filtered), p.PageSize)
	proj.Rows = Paginate(filtered, p.Page, p.PageSize)
	return proj
}

func (p Projector) category() string {
	if p.Category == "" {
		return AllCategories
	}
	return p.Category
}

func (p Projector) truncate(records []types.Question) []types.Question {
	if p.Limit > 0 && len(records) > p.Limit {
		return records[:p.Limit]
	}
	return records
}

// Filter keeps the records whose Category equals category. AllCategories
// and "" keep everything.
func Filter(records []types.Question, category string) []types.Question {
	if category == "" || category == AllCategories {
		return records
	}
	out := make([]types.Question, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// PageCount returns ceil(n / size). A non-positive size counts as one page.
func PageCount(n, size int) int {
	if size <= 0 {
		if n == 0 {
			return 0
		}
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the page-th window of size records. Out-of-range pages
// return an empty slice.
func Paginate(records []types.Question, page, size int) []types.Question {
	if size <= 0 {
		return records
	}
	start := page * size
	if page < 0 || start >= len(records) {
		return []types.Question{}
	}
	end := min(start+size, len(records))
	return records[start:end]
}

// Categories returns AllCategories followed by the distinct categories of
// records in first-seen order.
func Categories(records []types.Question) []string {
	seen := make(map[string]bool)
	out := []string{AllCategories}
	for _, r := range records {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// ParseDisplayCount converts a display choice to a Limit. "All" (any case)
// maps to 0.
func ParseDisplayCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, ShowAll) {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDisplayCount, s)
	}
	return n, nil
}

// Truncate shortens text to its first two space-separated words, adding
// "..." when anything was cut.
func Truncate(text string) string {
	words := strings.Split(text, " ")
	if len(words) <= 2 {
		return text
	}
	return strings.Join(words[:2], " ") + "..."
}

// Renderable reports whether a row carries the fields a table row needs.
func Renderable(q types.Question) bool {
	return q.SL != "" && q.Category != "" && q.Question != ""
}
