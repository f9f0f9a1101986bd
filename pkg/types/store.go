package types

import (
	"context"
	"errors"
)

// Store is the durable record collection behind the HTTP backend.
// Callers attach to a backend, run operations, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// List returns every stored question in the order it was saved.
	List(ctx context.Context) ([]Question, error)

	// ReplaceAll discards every stored question and stores exactly the
	// given sequence, in order.
	ReplaceAll(ctx context.Context, questions []Question) error

	// DeleteBySL removes the first question whose stored SL equals sl.
	// Matching nothing is not an error.
	DeleteBySL(ctx context.Context, sl string) error

	// DeleteByID removes the question with the given stable ID.
	// Matching nothing is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll empties the collection.
	DeleteAll(ctx context.Context) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Record errors.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidField   = errors.New("unknown question field")
)
