package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Category", FieldCategory, true},
		{"category", FieldCategory, true},
		{"Option A", FieldOptionA, true},
		{" option d ", FieldOptionD, true},
		{"OptionB", FieldOptionB, true},
		{"sl", FieldSL, true},
		{"Difficulty", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalField(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuestionGetSet(t *testing.T) {
	var q Question
	require.NoError(t, q.Set("Option C", "Peter"))
	require.NoError(t, q.Set("Answer", "C"))

	got, err := q.Get("OptionC")
	require.NoError(t, err)
	assert.Equal(t, "Peter", got)
	assert.Equal(t, "C", q.Answer)

	assert.ErrorIs(t, q.Set("Difficulty", "hard"), ErrInvalidField)
	_, err = q.Get("Difficulty")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Option A", Label(FieldOptionA))
	assert.Equal(t, "Category", Label(FieldCategory))
	assert.Equal(t, "Options", Label("Options"))
}

func TestSameContentIgnoresSLAndID(t *testing.T) {
	a := Question{ID: "a", SL: "1", Category: "Faith", Question: "What is grace?"}
	b := Question{ID: "b", SL: "7", Category: "Faith", Question: "What is grace?"}
	assert.True(t, a.SameContent(b))

	b.Answer = "A"
	assert.False(t, a.SameContent(b))
}

func TestFillIDsKeepsExisting(t *testing.T) {
	qs := []Question{{ID: "keep"}, {}, {}}
	assert.Equal(t, 2, FillIDs(qs))
	assert.Equal(t, "keep", qs[0].ID)
	assert.NotEmpty(t, qs[1].ID)
	assert.NotEqual(t, qs[1].ID, qs[2].ID)
	assert.Zero(t, FillIDs(qs))
}
