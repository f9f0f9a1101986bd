package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/quizbank/internal/csvimport"
	"github.com/mesh-intelligence/quizbank/pkg/types"
)

func sample() []types.Question {
	return []types.Question{
		{ID: "id-1", SL: "1", Category: "Math", Question: "2+2?", OptionA: "3", OptionB: "4", Answer: "4"},
		{ID: "id-2", SL: "2", Category: "Art", Question: "Who painted Water Lilies?", Answer: "Monet", Reference: "Wikipedia"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSONL", FormatJSONL, false},
		{" yaml ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/questions.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("questions")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, sample()))

	var doc struct {
		Questions []types.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, sample(), doc.Questions)
	assert.Contains(t, buf.String(), `"OptionA": "3"`)
}

func TestEncodeEmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, nil))
	assert.JSONEq(t, `{"questions":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatJSONL, nil))
	assert.Empty(t, buf.String())
}

func TestEncodeJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSONL, sample()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var q types.Question
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &q))
	assert.Equal(t, "Monet", q.Answer)
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, sample()))
	assert.Contains(t, buf.String(), "option_a: \"3\"")

	var doc struct {
		Questions []types.Question `yaml:"questions"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, sample(), doc.Questions)
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatCSV, sample()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"SL", "Category", "Question", "Option A", "Option B", "Option C", "Option D", "Answer", "Reference", "Application"}, records[0])
	assert.Equal(t, "Monet", records[2][7])
}

func TestCSVExportReimports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatCSV, sample()))

	got := csvimport.Import(buf.String())
	require.Len(t, got, 2)
	for i, want := range sample() {
		want.ID, want.SL = "", ""
		assert.True(t, got[i].SameContent(want), "row %d", i)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	assert.ErrorIs(t, Encode(io.Discard, Format("xml"), sample()), ErrUnknownFormat)
}

func TestDefaultKey(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "questions-20260102T150405Z.csv", DefaultKey(FormatCSV, at))
}

func TestFileSinkExport(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir}

	loc, err := Export(context.Background(), sink, "nested/bank.jsonl", FormatJSONL, sample())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "bank.jsonl"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not remain")
}

func TestFileSinkDefaultKey(t *testing.T) {
	dir := t.TempDir()
	loc, err := Export(context.Background(), FileSink{Dir: dir}, "", FormatYAML, sample())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(loc), "questions-"))
	assert.Equal(t, ".yaml", filepath.Ext(loc))
}

func TestFileSinkEmptyKey(t *testing.T) {
	_, err := FileSink{Dir: t.TempDir()}.Put(context.Background(), "", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

// fakeS3 records PutObject calls.
type fakeS3 struct {
	puts map[string][]byte
	ct   map[string]string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
		f.ct = map[string]string{}
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.puts[key] = body
	f.ct[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkExport(t *testing.T) {
	fake := &fakeS3{}
	sink := newS3Sink(fake, S3Config{Bucket: "quiz", Prefix: "exports"})

	loc, err := Export(context.Background(), sink, "/bank.json", FormatJSON, sample())
	require.NoError(t, err)
	assert.Equal(t, "s3://quiz/exports/bank.json", loc)
	require.Contains(t, fake.puts, "quiz/exports/bank.json")
	assert.Equal(t, "application/json", fake.ct["quiz/exports/bank.json"])
	assert.Contains(t, string(fake.puts["quiz/exports/bank.json"]), "Water Lilies")
}

func TestS3SinkFailure(t *testing.T) {
	sink := newS3Sink(&fakeS3{err: errors.New("access denied")}, S3Config{Bucket: "quiz"})
	_, err := Export(context.Background(), sink, "bank.csv", FormatCSV, sample())
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3SinkRequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	assert.ErrorIs(t, err, ErrBucketRequired)
}

func TestNewS3SinkWithEndpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	sink, err := NewS3Sink(context.Background(), S3Config{
		Bucket:    "quiz",
		Endpoint:  "http://127.0.0.1:9999",
		PathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "quiz", sink.bucket)
}
