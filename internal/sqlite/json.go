// JSON record structure for questions.jsonl.
package sqlite

import "github.com/mesh-intelligence/quizbank/pkg/types"

// questionJSON mirrors one line of questions.jsonl. Keys match the SQLite
// column names so the loader can map them directly.
type questionJSON struct {
	QuestionID  string `json:"question_id"`
	SL          string `json:"sl"`
	Category    string `json:"category"`
	Question    string `json:"question"`
	OptionA     string `json:"option_a"`
	OptionB     string `json:"option_b"`
	OptionC     string `json:"option_c"`
	OptionD     string `json:"option_d"`
	Answer      string `json:"answer"`
	Reference   string `json:"reference"`
	Application string `json:"application"`
}

func toQuestionJSON(q types.Question) questionJSON {
	return questionJSON{
		QuestionID:  q.ID,
		SL:          q.SL,
		Category:    q.Category,
		Question:    q.Question,
		OptionA:     q.OptionA,
		OptionB:     q.OptionB,
		OptionC:     q.OptionC,
		OptionD:     q.OptionD,
		Answer:      q.Answer,
		Reference:   q.Reference,
		Application: q.Application,
	}
}

// args returns the column values in questionColumns order.
func (r questionJSON) args() []any {
	return []any{
		r.QuestionID, r.SL, r.Category, r.Question,
		r.OptionA, r.OptionB, r.OptionC, r.OptionD,
		r.Answer, r.Reference, r.Application,
	}
}

// scanDest returns scan destinations in questionColumns order.
func scanDest(q *types.Question) []any {
	return []any{
		&q.ID, &q.SL, &q.Category, &q.Question,
		&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.Answer, &q.Reference, &q.Application,
	}
}
