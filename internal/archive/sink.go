package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// Sink stores one exported object under key and reports where it went.
type Sink interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// ErrEmptyKey is returned when an export has no object name.
var ErrEmptyKey = errors.New("export key is empty")

// Export encodes questions in format f and hands them to sink under key.
// An empty key selects DefaultKey(f, time.Now()).
func Export(ctx context.Context, sink Sink, key string, f Format, questions []types.Question) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, questions); err != nil {
		return "", fmt.Errorf("encoding %s: %w", f, err)
	}
	if key == "" {
		key = DefaultKey(f, time.Now())
	}
	loc, err := sink.Put(ctx, key, &buf, f.ContentType())
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}
	return loc, nil
}

// DefaultKey names an export by UTC timestamp, e.g.
// questions-20260102T150405Z.json.
func DefaultKey(f Format, now time.Time) string {
	return fmt.Sprintf("questions-%s.%s", now.UTC().Format("20060102T150405Z"), f.Extension())
}

// FileSink writes exports under Dir. Files are written to a temp name and
// renamed into place.
type FileSink struct {
	Dir string
}

// Put writes r to Dir/key, creating parent directories.
func (s FileSink) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	path := key
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		return fail(fmt.Errorf("writing export: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing export: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("renaming export: %w", err)
	}
	return path, nil
}
