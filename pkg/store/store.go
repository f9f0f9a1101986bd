// Package store provides the public factory for quizbank record stores.
// It selects a backend by name while keeping implementations internal.
package store

import (
	"fmt"

	"github.com/mesh-intelligence/quizbank/internal/memory"
	"github.com/mesh-intelligence/quizbank/internal/postgres"
	"github.com/mesh-intelligence/quizbank/internal/sqlite"
	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// New returns a detached Store for the named backend.
// Returns ErrBackendUnknown for unrecognized names.
func New(backend string) (types.Store, error) {
	switch backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendPostgres:
		return postgres.NewStore(), nil
	case types.BackendMemory:
		return memory.NewStore(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// Open creates the Store selected by config and attaches it.
// The caller must Detach the returned Store.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".quizbank-db",
//	})
//	defer s.Detach()
func Open(config types.Config) (types.Store, error) {
	s, err := New(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(config); err != nil {
		return nil, fmt.Errorf("attach %s store: %w", config.Backend, err)
	}
	return s, nil
}
