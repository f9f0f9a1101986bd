package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

func loaded(t *testing.T, records []types.Question) *Cache {
	t.Helper()
	c := NewCache(&fakeAPI{})
	c.Load(records)
	return c
}

func TestProjectFilterOnlyMatchingCategory(t *testing.T) {
	c := loaded(t, questions(9, "Faith", "History", "faith"))

	for _, cat := range []string{"Faith", "History", "faith", "Missing"} {
		t.Run(cat, func(t *testing.T) {
			got := Projector{Category: cat}.Project(c)
			assert.LessOrEqual(t, len(got.Rows), c.Len())
			for _, r := range got.Rows {
				assert.Equal(t, cat, r.Category)
			}
		})
	}

	got := Projector{Category: "Faith"}.Project(c)
	assert.Len(t, got.Rows, 3, "filter is case-sensitive")
}

func TestProjectAllPassesEverything(t *testing.T) {
	c := loaded(t, questions(5, "A", "B"))
	for _, cat := range []string{AllCategories, ""} {
		got := Projector{Category: cat}.Project(c)
		assert.Len(t, got.Rows, 5)
		assert.Equal(t, AllCategories, got.Category)
		assert.Equal(t, 5, got.Total)
	}
}

func TestProjectDisplayCountTruncates(t *testing.T) {
	c := loaded(t, questions(50))
	limit, err := ParseDisplayCount("20")
	require.NoError(t, err)

	got := Projector{Category: AllCategories, Limit: limit}.Project(c)
	require.Len(t, got.Rows, 20)
	assert.Equal(t, c.Snapshot()[:20], got.Rows)
	assert.Equal(t, 20, got.Matched)
	assert.Equal(t, 50, got.Total)

	limit, err = ParseDisplayCount("All")
	require.NoError(t, err)
	got = Projector{Limit: limit}.Project(c)
	assert.Len(t, got.Rows, 50)
}

func TestProjectPagination(t *testing.T) {
	c := loaded(t, questions(23))

	tests := []struct {
		page    int
		wantLen int
		firstSL string
	}{
		{0, 10, "1"},
		{1, 10, "11"},
		{2, 3, "21"},
		{3, 0, ""},
		{-1, 0, ""},
	}
	for _, tt := range tests {
		got := Projector{PageSize: DefaultPageSize, Page: tt.page}.Project(c)
		assert.Equal(t, 3, got.Pages)
		require.Len(t, got.Rows, tt.wantLen)
		if tt.wantLen > 0 {
			assert.Equal(t, tt.firstSL, got.Rows[0].SL)
		}
	}
}

func TestProjectPaginationAfterFilterAndLimit(t *testing.T) {
	c := loaded(t, questions(40, "A", "B"))
	got := Projector{Category: "B", Limit: 15, PageSize: 10, Page: 1}.Project(c)
	assert.Equal(t, 15, got.Matched)
	assert.Equal(t, 2, got.Pages)
	assert.Len(t, got.Rows, 5)
}

func TestProjectDoesNotMutateSource(t *testing.T) {
	src := staticSource(questions(4, "A", "B"))
	before := append([]types.Question(nil), src...)
	Projector{Category: "A", Limit: 1, PageSize: 1}.Project(src)
	assert.Equal(t, before, []types.Question(src))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 1, PageCount(7, 0))
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	got := Categories([]types.Question{
		{Category: "History"}, {Category: "Faith"}, {Category: "History"}, {Category: ""},
	})
	assert.Equal(t, []string{AllCategories, "History", "Faith", ""}, got)
	assert.Equal(t, []string{AllCategories}, Categories(nil))
}

func TestParseDisplayCount(t *testing.T) {
	for _, in := range []string{"20", "50", "100", " 7 "} {
		n, err := ParseDisplayCount(in)
		require.NoError(t, err, in)
		assert.Positive(t, n)
	}
	n, err := ParseDisplayCount("all")
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, in := range []string{"", "0", "-3", "twenty"} {
		_, err := ParseDisplayCount(in)
		assert.ErrorIs(t, err, ErrInvalidDisplayCount, in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate(""))
	assert.Equal(t, "Grace", Truncate("Grace"))
	assert.Equal(t, "What is", Truncate("What is"))
	assert.Equal(t, "What is...", Truncate("What is grace?"))
}

func TestRenderable(t *testing.T) {
	assert.True(t, Renderable(types.Question{SL: "1", Category: "A", Question: "Q"}))
	assert.False(t, Renderable(types.Question{SL: "1", Category: "A"}))
	assert.False(t, Renderable(types.Question{SL: "1", Question: "Q"}))
	assert.False(t, Renderable(types.Question{Category: "A", Question: "Q"}))
}
