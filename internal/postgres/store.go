// Package postgres provides a Postgres-backed question store using the pgx
// database/sql driver. The questions table is created on Attach.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

var _ types.Store = (*Store)(nil)

const driverName = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

const createQuestions = `CREATE TABLE IF NOT EXISTS questions (
	position BIGINT PRIMARY KEY,
	question_id TEXT NOT NULL,
	sl TEXT NOT NULL,
	category TEXT NOT NULL,
	question TEXT NOT NULL,
	option_a TEXT NOT NULL,
	option_b TEXT NOT NULL,
	option_c TEXT NOT NULL,
	option_d TEXT NOT NULL,
	answer TEXT NOT NULL,
	reference TEXT NOT NULL,
	application TEXT NOT NULL
)`

var columns = []string{
	"question_id", "sl", "category", "question",
	"option_a", "option_b", "option_c", "option_d",
	"answer", "reference", "application",
}

// Store persists questions to a single Postgres table.
type Store struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
}

// NewStore returns a detached store.
func NewStore() *Store {
	return &Store{}
}

// Attach opens config.DSN, pings the server, and ensures the table exists.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	openMu.Lock()
	db, err := sqlOpen(driverName, config.DSN)
	openMu.Unlock()
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createQuestions); err != nil {
		db.Close()
		return fmt.Errorf("ensure questions table: %w", err)
	}
	s.db = db
	s.attached = true
	return nil
}

// Detach closes the pool. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return nil
	}
	s.attached = false
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	s.db = nil
	return nil
}

// List returns every question ordered by position.
func (s *Store) List(ctx context.Context) ([]types.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.QueryContext(ctx, selectSQL())
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []types.Question{}
	for rows.Next() {
		var q types.Question
		if err := rows.Scan(&q.ID, &q.SL, &q.Category, &q.Question,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.Answer, &q.Reference, &q.Application); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

// ReplaceAll deletes every row and inserts questions inside one transaction.
// Questions without an ID are stored with a fresh one.
func (s *Store) ReplaceAll(ctx context.Context, questions []types.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	questions = append([]types.Question(nil), questions...)
	types.FillIDs(questions)
	insert := insertSQL()
	for i, q := range questions {
		if _, err := tx.ExecContext(ctx, insert, i+1,
			q.ID, q.SL, q.Category, q.Question,
			q.OptionA, q.OptionB, q.OptionC, q.OptionD,
			q.Answer, q.Reference, q.Application); err != nil {
			return fmt.Errorf("insert question %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit questions: %w", err)
	}
	return nil
}

// DeleteBySL removes the first question, by position, whose SL equals sl.
func (s *Store) DeleteBySL(ctx context.Context, sl string) error {
	return s.exec(ctx,
		"DELETE FROM questions WHERE position = (SELECT MIN(position) FROM questions WHERE sl = $1)", sl)
}

// DeleteByID removes the question with the given ID.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.exec(ctx, "DELETE FROM questions WHERE question_id = $1", id)
}

// DeleteAll empties the table.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.exec(ctx, "DELETE FROM questions")
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM questions ORDER BY position ASC", strings.Join(columns, ", "))
}

// insertSQL builds the INSERT with Postgres $n placeholders, position first.
func insertSQL() string {
	cols := append([]string{"position"}, columns...)
	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO questions (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}
