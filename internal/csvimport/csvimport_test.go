package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

func TestImportEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"only blank lines", "\n   \n\t\n"},
		{"header only", "Category,Question,Option A"},
		{"header with trailing blank lines", "Category,Question\n\n  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Import(tt.text)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestImportSingleRow(t *testing.T) {
	got := Import("Category,Question\nFaith,What is grace?")
	require.Len(t, got, 1)
	assert.Equal(t, types.Question{Category: "Faith", Question: "What is grace?"}, got[0])
}

func TestImportFullHeader(t *testing.T) {
	text := strings.Join([]string{
		"SL,Category,Question,Option A,Option B,Option C,Option D,Answer,Reference,Application",
		`1,"Faith","Who wrote Romans?",Paul,Peter,John,James,A,Romans 1:1,Read it`,
		"",
		"2,History,When?,1517,1066,1492,1776,A,,",
	}, "\n")

	got := Import(text)
	require.Len(t, got, 2)

	assert.Equal(t, types.Question{
		Category:    "Faith",
		Question:    "Who wrote Romans?",
		OptionA:     "Paul",
		OptionB:     "Peter",
		OptionC:     "John",
		OptionD:     "James",
		Answer:      "A",
		Reference:   "Romans 1:1",
		Application: "Read it",
	}, got[0])
	assert.Empty(t, got[0].SL, "SL is assigned by the cache, not the importer")
	assert.Equal(t, "History", got[1].Category)
	assert.Empty(t, got[1].Reference)
	assert.Empty(t, got[1].Application)
}

func TestImportShortRowYieldsEmptyFields(t *testing.T) {
	got := Import("Category,Question,Answer\nFaith")
	require.Len(t, got, 1)
	assert.Equal(t, "Faith", got[0].Category)
	assert.Empty(t, got[0].Question)
	assert.Empty(t, got[0].Answer)
}

func TestImportIgnoresUnknownHeaders(t *testing.T) {
	got := Import("Difficulty,Category\nhard,Faith")
	require.Len(t, got, 1)
	assert.Equal(t, types.Question{Category: "Faith"}, got[0])
}

func TestImportCRLF(t *testing.T) {
	got := Import("Category,Question\r\nFaith,What is grace?\r\n")
	require.Len(t, got, 1)
	assert.Equal(t, "Faith", got[0].Category)
	assert.Equal(t, "What is grace?", got[0].Question)
}

func TestImportCompactOptionHeaders(t *testing.T) {
	got := Import("OptionA,Option A\ncompact,spaced")
	require.Len(t, got, 1)
	assert.Equal(t, "spaced", got[0].OptionA)
}

func TestImportEmbeddedCommaShiftsFields(t *testing.T) {
	// Quoted commas are not supported; the row is split positionally.
	got := Import("Category,Question,Answer\nFaith,\"Grace, mercy\",A")
	require.Len(t, got, 1)
	assert.Equal(t, "Grace", got[0].Question)
	assert.Equal(t, "mercy", got[0].Answer)
}

func TestParseRowsTrimsHeadersAndQuotes(t *testing.T) {
	rows := ParseRows(" Category , Question \n\"Faith\", \"Why?\" ,extra")
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"Category": "Faith", "Question": "Why?"}, rows[0])
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestImportReader(t *testing.T) {
	got, err := ImportReader(strings.NewReader("Category\nFaith\nHope"))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ImportReader(failingReader{})
	assert.ErrorContains(t, err, "disk gone")
}
