package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// Deleter issues the backend side effect of a local delete.
type Deleter interface {
	DeleteOne(ctx context.Context, q types.Question) error
	DeleteAll(ctx context.Context) error
}

// Done is called once a backend side effect finishes. err is nil on success.
type Done func(err error)

// Cache is the in-memory source of truth for one client session.
// All mutations are local and synchronous; the backend calls triggered by
// Remove and RemoveAll run in the background and roll the local change back
// when they fail.
type Cache struct {
	mu      sync.Mutex
	records []types.Question
	unsaved bool
	// unsynced maps IDs minted by Load to the SL the backend stored the
	// record under. The backend does not know those IDs until a save.
	unsynced map[string]string

	deleter Deleter
	log     *slog.Logger
	pending sync.WaitGroup
}

// NewCache returns an empty cache whose deletes are forwarded to d.
func NewCache(d Deleter) *Cache {
	return &Cache{deleter: d, log: slog.Default()}
}

// WithLogger sets the logger used for background failures.
func (c *Cache) WithLogger(l *slog.Logger) *Cache {
	if l != nil {
		c.log = l
	}
	return c
}

// Load replaces the whole cache and clears the unsaved flag. Records are
// renumbered by position; a record that arrives without an ID is given one
// and remembered under its stored SL so Remove can still reach it.
func (c *Cache) Load(records []types.Question) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append([]types.Question(nil), records...)
	c.unsynced = nil
	for i := range c.records {
		if c.records[i].ID != "" {
			continue
		}
		c.records[i].ID = types.NewID()
		if c.unsynced == nil {
			c.unsynced = make(map[string]string)
		}
		c.unsynced[c.records[i].ID] = c.records[i].SL
	}
	renumber(c.records)
	c.unsaved = false
}

// Append adds records after the existing ones and renumbers the whole cache.
func (c *Cache) Append(records []types.Question) {
	if len(records) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	start := len(c.records)
	c.records = append(c.records, records...)
	types.FillIDs(c.records[start:])
	renumber(c.records)
	c.unsaved = true
}

// Update replaces the record whose SL is sl with patch. The target keeps
// its SL and ID; no other record is renumbered.
// Returns ErrRecordNotFound when no record matches.
func (c *Cache) Update(sl string, patch types.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(sl)
	if i < 0 {
		return types.ErrRecordNotFound
	}
	patch.SL = c.records[i].SL
	patch.ID = c.records[i].ID
	c.records[i] = patch
	c.unsaved = true
	return nil
}

// Remove deletes the record whose SL is sl, renumbers the rest, and issues
// the backend delete in the background. A record whose ID the backend does
// not know yet is deleted by its stored SL instead. It returns false,
// leaving the cache untouched, when no record matches; done is not called in
// that case.
func (c *Cache) Remove(ctx context.Context, sl string, done Done) bool {
	c.mu.Lock()
	i := c.indexOf(sl)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	removed := c.records[i]
	c.records = append(c.records[:i], c.records[i+1:]...)
	renumber(c.records)
	target := removed
	storedSL, unsynced := c.unsynced[removed.ID]
	if unsynced {
		target.ID = ""
		target.SL = storedSL
		delete(c.unsynced, removed.ID)
	}
	c.mu.Unlock()

	c.background(done, func() error {
		return c.deleter.DeleteOne(ctx, target)
	}, func() {
		c.restore(i, removed)
		if unsynced {
			c.mu.Lock()
			if c.unsynced == nil {
				c.unsynced = make(map[string]string)
			}
			c.unsynced[removed.ID] = storedSL
			c.mu.Unlock()
		}
	})
	return true
}

// RemoveAll empties the cache, clears the unsaved flag, and issues the
// backend delete-all in the background.
func (c *Cache) RemoveAll(ctx context.Context, done Done) {
	c.mu.Lock()
	previous := c.records
	wasUnsaved := c.unsaved
	previousUnsynced := c.unsynced
	c.records = nil
	c.unsaved = false
	c.unsynced = nil
	c.mu.Unlock()

	c.background(done, func() error {
		return c.deleter.DeleteAll(ctx)
	}, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if len(c.records) != 0 {
			return
		}
		c.records = previous
		c.unsaved = wasUnsaved
		c.unsynced = previousUnsynced
	})
}

// background runs call on its own goroutine. On failure it runs rollback
// before reporting the error.
func (c *Cache) background(done Done, call func() error, rollback func()) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		err := call()
		if err != nil {
			c.log.Warn("backend delete failed, restoring local state", "error", err)
			rollback()
		}
		if done != nil {
			done(err)
		}
	}()
}

// restore puts a removed record back at index i unless a record with the
// same ID has reappeared (for example after a reload).
func (c *Cache) restore(i int, q types.Question) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.records {
		if r.ID == q.ID {
			return
		}
	}
	if i > len(c.records) {
		i = len(c.records)
	}
	c.records = append(c.records, types.Question{})
	copy(c.records[i+1:], c.records[i:])
	c.records[i] = q
	renumber(c.records)
}

// Wait blocks until every background delete has finished.
func (c *Cache) Wait() {
	c.pending.Wait()
}

// Snapshot returns a copy of the records in list order.
func (c *Cache) Snapshot() []types.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Question(nil), c.records...)
}

// Get returns the record whose SL is sl.
func (c *Cache) Get(sl string) (types.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(sl)
	if i < 0 {
		return types.Question{}, false
	}
	return c.records[i], true
}

// Len returns the number of records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Unsaved reports whether the cache holds changes not yet saved.
func (c *Cache) Unsaved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsaved
}

// MarkSaved clears the unsaved flag. The backend now stores every cached
// ID, so deletes address records by ID from here on.
func (c *Cache) MarkSaved() {
	c.mu.Lock()
	c.unsaved = false
	c.unsynced = nil
	c.mu.Unlock()
}

// indexOf returns the index of the record with the given SL, or -1.
// The caller must hold c.mu.
func (c *Cache) indexOf(sl string) int {
	for i, r := range c.records {
		if r.SL == sl {
			return i
		}
	}
	return -1
}

// renumber sets SL to the 1-based position of each record.
func renumber(records []types.Question) {
	for i := range records {
		records[i].SL = strconv.Itoa(i + 1)
	}
}

