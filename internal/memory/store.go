// Package memory provides a process-local question store used by tests and
// by `quizbank serve --backend memory`.
package memory

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Store keeps questions in a slice guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	attached  bool
	questions []types.Question
}

// NewStore returns a detached store.
func NewStore() *Store {
	return &Store{}
}

// Attach validates config and marks the store usable. Previously stored
// questions survive a Detach/Attach cycle within the process.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	s.attached = true
	return nil
}

// Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	s.attached = false
	s.mu.Unlock()
	return nil
}

// List returns a copy of the stored questions.
func (s *Store) List(context.Context) ([]types.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	return append([]types.Question{}, s.questions...), nil
}

// ReplaceAll swaps in a copy of questions. Questions without an ID are
// given one so later deletes by ID find them.
func (s *Store) ReplaceAll(_ context.Context, questions []types.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}
	s.questions = append([]types.Question{}, questions...)
	types.FillIDs(s.questions)
	return nil
}

// DeleteBySL removes the first question with the given SL.
func (s *Store) DeleteBySL(_ context.Context, sl string) error {
	return s.deleteFirst(func(q types.Question) bool { return q.SL == sl })
}

// DeleteByID removes the question with the given ID.
func (s *Store) DeleteByID(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.deleteFirst(func(q types.Question) bool { return q.ID == id })
}

// DeleteAll empties the store.
func (s *Store) DeleteAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}
	s.questions = nil
	return nil
}

func (s *Store) deleteFirst(match func(types.Question) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}
	for i, q := range s.questions {
		if match(q) {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return nil
}
