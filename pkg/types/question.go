package types

import "strings"

// Question is one quiz-question record. Every field is free text; none is
// guaranteed non-empty.
type Question struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"` // Stable key (UUID v7), filled by the store or the client cache.
	SL          string `json:"SL" yaml:"sl"`                     // Display row number, 1-based, re-derived from position.
	Category    string `json:"Category" yaml:"category"`
	Question    string `json:"Question" yaml:"question"`
	OptionA     string `json:"OptionA" yaml:"option_a"`
	OptionB     string `json:"OptionB" yaml:"option_b"`
	OptionC     string `json:"OptionC" yaml:"option_c"`
	OptionD     string `json:"OptionD" yaml:"option_d"`
	Answer      string `json:"Answer" yaml:"answer"`
	Reference   string `json:"Reference" yaml:"reference"`
	Application string `json:"Application" yaml:"application"`
}

// Field names as they appear on the wire and in the table header.
const (
	FieldSL          = "SL"
	FieldCategory    = "Category"
	FieldQuestion    = "Question"
	FieldOptionA     = "OptionA"
	FieldOptionB     = "OptionB"
	FieldOptionC     = "OptionC"
	FieldOptionD     = "OptionD"
	FieldAnswer      = "Answer"
	FieldReference   = "Reference"
	FieldApplication = "Application"
)

// ContentFields lists the editable fields in display order. SL is excluded
// because it is derived from position.
var ContentFields = []string{
	FieldCategory,
	FieldQuestion,
	FieldOptionA,
	FieldOptionB,
	FieldOptionC,
	FieldOptionD,
	FieldAnswer,
	FieldReference,
	FieldApplication,
}

// fieldLabels maps the human labels used in CSV headers and the table
// header ("Option A") to field names.
var fieldLabels = map[string]string{
	"option a": FieldOptionA,
	"option b": FieldOptionB,
	"option c": FieldOptionC,
	"option d": FieldOptionD,
}

// Label returns the human label for a field name ("OptionA" -> "Option A").
func Label(field string) string {
	switch field {
	case FieldOptionA, FieldOptionB, FieldOptionC, FieldOptionD:
		return "Option " + field[len("Option"):]
	}
	return field
}

// CanonicalField resolves a field name or label, case-insensitively, to the
// canonical field name. The second result is false for unknown names.
func CanonicalField(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if f, ok := fieldLabels[strings.ToLower(name)]; ok {
		return f, true
	}
	if strings.EqualFold(name, FieldSL) {
		return FieldSL, true
	}
	for _, f := range ContentFields {
		if strings.EqualFold(name, f) {
			return f, true
		}
	}
	return "", false
}

// Get returns the value of the named field. The name may be a label.
// Returns ErrInvalidField for unknown names.
func (q Question) Get(name string) (string, error) {
	p, err := q.field(name)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// Set assigns the named field. The name may be a label.
// Returns ErrInvalidField for unknown names.
func (q *Question) Set(name, value string) error {
	p, err := q.field(name)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

func (q *Question) field(name string) (*string, error) {
	f, ok := CanonicalField(name)
	if !ok {
		return nil, ErrInvalidField
	}
	switch f {
	case FieldSL:
		return &q.SL, nil
	case FieldCategory:
		return &q.Category, nil
	case FieldQuestion:
		return &q.Question, nil
	case FieldOptionA:
		return &q.OptionA, nil
	case FieldOptionB:
		return &q.OptionB, nil
	case FieldOptionC:
		return &q.OptionC, nil
	case FieldOptionD:
		return &q.OptionD, nil
	case FieldAnswer:
		return &q.Answer, nil
	case FieldReference:
		return &q.Reference, nil
	default:
		return &q.Application, nil
	}
}

// SameContent reports whether two questions carry the same content,
// ignoring SL and ID.
func (q Question) SameContent(other Question) bool {
	q.SL, other.SL = "", ""
	q.ID, other.ID = "", ""
	return q == other
}
