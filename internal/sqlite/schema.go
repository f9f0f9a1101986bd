// Package sqlite implements the SQLite storage backend for quizbank.
// The questions.jsonl file in the data directory is the source of truth;
// SQLite is rebuilt from it on every Attach and serves the queries.
package sqlite

// Schema DDL. position orders the collection as it was saved; gaps left by
// single deletes are harmless.
const (
	createQuestions = `CREATE TABLE questions (
    position INTEGER PRIMARY KEY,
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
);`

	idxQuestionsID = `CREATE INDEX idx_questions_id ON questions(question_id);`
	idxQuestionsSL = `CREATE INDEX idx_questions_sl ON questions(sl);`
)

// schemaDDL lists every statement run on Attach, in order.
var schemaDDL = []string{
	createQuestions,
	idxQuestionsID,
	idxQuestionsSL,
}

// questionColumns lists the data columns in scan and insert order.
var questionColumns = []string{
	"question_id", "sl", "category", "question",
	"option_a", "option_b", "option_c", "option_d",
	"answer", "reference", "application",
}
