// JSONL loading for startup. Unknown fields in a record are ignored and
// malformed lines are skipped, so data files written by newer versions still
// load.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// loadResult counts what loadJSONL did.
type loadResult struct {
	loaded int
	filled int // records that had no question_id and were given one
}

// loadJSONL replaces the questions table with the records in path, in file
// order. Records without a question_id get a fresh one. Loading is
// transactional: all records load or none do.
func loadJSONL(db *sql.DB, path string) (loadResult, error) {
	var res loadResult
	records, err := readJSONL(path)
	if err != nil {
		return res, err
	}

	tx, err := db.Begin()
	if err != nil {
		return res, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM questions"); err != nil {
		return res, fmt.Errorf("clearing questions: %w", err)
	}
	stmt, err := tx.Prepare(insertSQL())
	if err != nil {
		return res, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var q questionJSON
		if err := json.Unmarshal(rec, &q); err != nil {
			continue
		}
		if q.QuestionID == "" {
			q.QuestionID = types.NewID()
			res.filled++
		}
		args := append([]any{res.loaded + 1}, q.args()...)
		if _, err := stmt.Exec(args...); err != nil {
			return loadResult{}, fmt.Errorf("loading record %d: %w", res.loaded+1, err)
		}
		res.loaded++
	}

	if err := tx.Commit(); err != nil {
		return loadResult{}, fmt.Errorf("committing load transaction: %w", err)
	}
	return res, nil
}

// insertSQL builds the INSERT statement for one question, position first.
func insertSQL() string {
	cols := append([]string{"position"}, questionColumns...)
	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO questions (%s) VALUES (%s)",
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
}
