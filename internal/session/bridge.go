package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// RecordAPI is the backend surface the bridge talks to.
type RecordAPI interface {
	Deleter

	// List returns every stored record.
	List(ctx context.Context) ([]types.Question, error)

	// Replace discards the stored records and stores exactly questions.
	Replace(ctx context.Context, questions []types.Question) error
}

// Bridge moves the cache to and from the backend. It is the only client
// component that talks to the record store.
type Bridge struct {
	api   RecordAPI
	cache *Cache
	log   *slog.Logger
}

// NewBridge connects cache to api. The cache should have been created with
// api (or the bridge) as its Deleter.
func NewBridge(api RecordAPI, cache *Cache) *Bridge {
	return &Bridge{api: api, cache: cache, log: slog.Default()}
}

// NewSession creates a cache wired to api and the bridge that serves it.
func NewSession(api RecordAPI) (*Cache, *Bridge) {
	cache := NewCache(api)
	return cache, NewBridge(api, cache)
}

// WithLogger sets the bridge logger.
func (b *Bridge) WithLogger(l *slog.Logger) *Bridge {
	if l != nil {
		b.log = l
	}
	return b
}

// Cache returns the cache this bridge serves.
func (b *Bridge) Cache() *Cache { return b.cache }

// FetchAll loads every stored record into the cache. The cache renumbers
// records by position; stored SL values only address records the backend
// holds without an ID.
func (b *Bridge) FetchAll(ctx context.Context) error {
	records, err := b.api.List(ctx)
	if err != nil {
		return fmt.Errorf("fetch questions: %w", err)
	}
	b.cache.Load(records)
	b.log.Debug("questions fetched", "count", len(records))
	return nil
}

// ErrReload reports that SaveAll stored the cache but could not reload it
// afterwards.
var ErrReload = errors.New("reload after save failed")

// SaveAll replaces the stored collection with the cache contents, then
// reloads the cache from the backend. A failed reload is wrapped in
// ErrReload; the save itself has succeeded in that case.
func (b *Bridge) SaveAll(ctx context.Context) error {
	records := b.cache.Snapshot()
	if err := b.api.Replace(ctx, records); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	b.cache.MarkSaved()
	b.log.Debug("questions saved", "count", len(records))
	if err := b.FetchAll(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReload, err)
	}
	return nil
}

// DeleteOne forwards a single delete to the backend.
func (b *Bridge) DeleteOne(ctx context.Context, q types.Question) error {
	return b.api.DeleteOne(ctx, q)
}

// DeleteAll forwards a delete-all to the backend.
func (b *Bridge) DeleteAll(ctx context.Context) error {
	return b.api.DeleteAll(ctx)
}
