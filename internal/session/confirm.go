package session

import "fmt"

// Action names a mutation that a user interface may want confirmed.
type Action string

// Confirmable actions.
const (
	ActionImport    Action = "import"
	ActionEdit      Action = "edit"
	ActionDelete    Action = "delete"
	ActionDeleteAll Action = "delete-all"
	ActionSave      Action = "save"
	ActionDiscard   Action = "discard"
)

// Intent describes a pending mutation.
type Intent struct {
	Action Action
	Target string // SL, file name, or empty.
	Count  int    // Records affected, when known.
}

// String renders the intent as a prompt.
func (i Intent) String() string {
	switch i.Action {
	case ActionImport:
		return fmt.Sprintf("Import %d question(s) from %s?", i.Count, i.Target)
	case ActionEdit:
		return fmt.Sprintf("Save changes to question %s?", i.Target)
	case ActionDelete:
		return fmt.Sprintf("Delete question %s? This cannot be reverted.", i.Target)
	case ActionDeleteAll:
		return fmt.Sprintf("Delete all %d question(s)? This cannot be reverted.", i.Count)
	case ActionSave:
		return fmt.Sprintf("Replace the stored collection with %d question(s)?", i.Count)
	case ActionDiscard:
		return "Discard unsaved changes?"
	default:
		return fmt.Sprintf("Proceed with %s?", i.Action)
	}
}

// Confirmer asks the user to approve an intent. The cache, projector and
// bridge never call it; user interfaces do, before mutating.
type Confirmer interface {
	Confirm(intent Intent) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(Intent) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(i Intent) bool { return f(i) }

// AlwaysConfirm approves every intent.
var AlwaysConfirm Confirmer = ConfirmFunc(func(Intent) bool { return true })
