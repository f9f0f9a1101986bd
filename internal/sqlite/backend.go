package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// dbFileName is the SQLite file inside DataDir. It is rebuilt on Attach.
const dbFileName = "quizbank.db"

// writeRecords persists the data file; tests swap it to simulate disk errors.
var writeRecords = writeJSONL

// Backend implements types.Store using SQLite as the query engine and
// questions.jsonl as the source of truth.
type Backend struct {
	mu        sync.RWMutex
	attached  bool
	config    types.Config
	db        *sql.DB
	jsonlPath string
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates DataDir if needed, rebuilds the SQLite database, and loads
// questions.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The JSONL file is authoritative; start from an empty database.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// Serialize writers; modernc sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	jsonlPath := filepath.Join(dataDir, questionsJSONL)
	if err := ensureJSONL(jsonlPath); err != nil {
		db.Close()
		return err
	}
	res, err := loadJSONL(db, jsonlPath)
	if err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.jsonlPath = jsonlPath
	if res.filled > 0 {
		// Records written without IDs keep the IDs minted for them.
		if err := b.persistLocked(context.Background()); err != nil {
			db.Close()
			b.db = nil
			return err
		}
	}
	b.attached = true
	return nil
}

// Detach closes the SQLite connection. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// List returns every question ordered by position.
func (b *Backend) List(ctx context.Context) ([]types.Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.listLocked(ctx)
}

func (b *Backend) listLocked(ctx context.Context) ([]types.Question, error) {
	query := fmt.Sprintf("SELECT %s FROM questions ORDER BY position ASC", strings.Join(questionColumns, ", "))
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	results := []types.Question{}
	for rows.Next() {
		var q types.Question
		if err := rows.Scan(scanDest(&q)...); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		results = append(results, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return results, nil
}

// ReplaceAll deletes every row and inserts questions in one transaction,
// then rewrites questions.jsonl. Questions without an ID are stored with a
// fresh one.
func (b *Backend) ReplaceAll(ctx context.Context, questions []types.Question) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
		return fmt.Errorf("clearing questions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL())
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	questions = append([]types.Question(nil), questions...)
	types.FillIDs(questions)
	for i, q := range questions {
		args := append([]any{i + 1}, toQuestionJSON(q).args()...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting question %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing questions: %w", err)
	}
	return b.persistOrRevertLocked(ctx)
}

// DeleteBySL removes the first question, by position, whose SL equals sl.
func (b *Backend) DeleteBySL(ctx context.Context, sl string) error {
	return b.exec(ctx,
		"DELETE FROM questions WHERE position = (SELECT MIN(position) FROM questions WHERE sl = ?)", sl)
}

// DeleteByID removes the question with the given ID.
func (b *Backend) DeleteByID(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return b.exec(ctx, "DELETE FROM questions WHERE question_id = ?", id)
}

// DeleteAll empties the collection.
func (b *Backend) DeleteAll(ctx context.Context) error {
	return b.exec(ctx, "DELETE FROM questions")
}

// exec runs a mutating statement and persists the JSONL file when it
// changed anything.
func (b *Backend) exec(ctx context.Context, query string, args ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting questions: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}
	return b.persistOrRevertLocked(ctx)
}

// persistOrRevertLocked persists the committed change. When the JSONL file
// cannot be written, SQLite is rebuilt from it so both hold the state that
// survives a restart.
// The caller must hold b.mu write lock.
func (b *Backend) persistOrRevertLocked(ctx context.Context) error {
	err := b.persistLocked(ctx)
	if err == nil {
		return nil
	}
	if _, rerr := loadJSONL(b.db, b.jsonlPath); rerr != nil {
		return errors.Join(err, fmt.Errorf("reverting to %s: %w", questionsJSONL, rerr))
	}
	return err
}

// persistLocked rewrites questions.jsonl from SQLite.
// The caller must hold b.mu write lock.
func (b *Backend) persistLocked(ctx context.Context) error {
	questions, err := b.listLocked(ctx)
	if err != nil {
		return err
	}
	records := make([]json.RawMessage, 0, len(questions))
	for _, q := range questions {
		data, err := json.Marshal(toQuestionJSON(q))
		if err != nil {
			return fmt.Errorf("marshaling question for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := writeRecords(b.jsonlPath, records); err != nil {
		return fmt.Errorf("persisting %s: %w", questionsJSONL, err)
	}
	return nil
}
