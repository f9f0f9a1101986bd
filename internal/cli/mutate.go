package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/csvimport"
	"github.com/mesh-intelligence/quizbank/internal/session"
	"github.com/mesh-intelligence/quizbank/pkg/types"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Append questions from a CSV file and save",
		Long: `Import reads a CSV file whose first line names the columns
(Category, Question, Option A..D, Answer, Reference, Application), appends
every row to the stored questions and saves the result.

The parser is line based: quoted values may not contain commas or newlines.

Example:
  quizbank import questions.csv
  quizbank import --yes questions.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return a.importFile(cmd, r, args[0], true)
		},
	}
}

// importFile appends the rows of path to the session and, with autosave,
// saves.
func (a *app) importFile(cmd *cobra.Command, r *remote, path string, autosave bool) error {
	imported, err := readCSV(path)
	if err != nil {
		return err
	}
	intent := session.Intent{Action: session.ActionImport, Target: path, Count: len(imported)}
	if !a.confirmer(cmd).Confirm(intent) {
		fmt.Fprintln(cmd.OutOrStdout(), cancelled)
		return nil
	}
	r.cache.Append(imported)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d question(s).\n", len(imported))
	if !autosave {
		return nil
	}
	return r.save(cmd.Context(), cmd)
}

// readCSV imports path, reporting an empty file as ErrNoData.
func readCSV(path string) ([]types.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, userError("open %s: %v", path, err)
	}
	defer f.Close()

	imported, err := csvimport.ImportReader(f)
	if err != nil {
		return nil, sysError("read "+path, err)
	}
	if len(imported) == 0 {
		return nil, userError("%s: %v", path, csvimport.ErrNoData)
	}
	return imported, nil
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <sl> <field=value>...",
		Short: "Change fields of one question and save",
		Long: `Edit replaces fields of the question shown with the given SL. Field names
are case-insensitive and may use the table labels ("Option A").
SL itself cannot be edited.

Example:
  quizbank edit 3 Answer=Paris
  quizbank edit 3 "Option B=Lyon" Reference=Atlas`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return a.editQuestion(cmd, r, args[0], args[1:], true)
		},
	}
}

// parseAssignments turns field=value arguments into canonical field names.
func parseAssignments(args []string) (map[string]string, []string, error) {
	values := make(map[string]string, len(args))
	var order []string
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, userError("invalid assignment %q (expected field=value)", arg)
		}
		field, known := types.CanonicalField(name)
		if !known {
			return nil, nil, userError("unknown field %q (valid: %s)", name, strings.Join(tableHeader()[1:], ", "))
		}
		if field == types.FieldSL {
			return nil, nil, userError("SL is derived from position and cannot be edited")
		}
		if _, seen := values[field]; !seen {
			order = append(order, field)
		}
		values[field] = value
	}
	return values, order, nil
}

// editQuestion applies field=value assignments to the question at sl and,
// with autosave, pushes the session to the backend.
func (a *app) editQuestion(cmd *cobra.Command, r *remote, sl string, assignments []string, autosave bool) error {
	values, order, err := parseAssignments(assignments)
	if err != nil {
		return err
	}
	current, ok := r.cache.Get(sl)
	if !ok {
		return userError("question %s not found", sl)
	}

	patch := current
	for _, f := range order {
		_ = patch.Set(f, values[f])
	}
	if patch.SameContent(current) {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
		return nil
	}
	if !a.confirmer(cmd).Confirm(session.Intent{Action: session.ActionEdit, Target: sl}) {
		fmt.Fprintln(cmd.OutOrStdout(), cancelled)
		return nil
	}
	if err := r.cache.Update(sl, patch); err != nil {
		return userError("question %s not found", sl)
	}
	if !autosave {
		fmt.Fprintf(cmd.OutOrStdout(), "Question %s updated.\n", sl)
		return nil
	}
	return r.save(cmd.Context(), cmd)
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sl>",
		Short: "Delete one question",
		Long: `Delete removes the question shown with the given SL from the backend.
Remaining questions are renumbered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return a.deleteQuestion(cmd, r, args[0])
		},
	}
}

// deleteQuestion removes sl locally, waits for the backend delete and
// reports its outcome.
func (a *app) deleteQuestion(cmd *cobra.Command, r *remote, sl string) error {
	if _, ok := r.cache.Get(sl); !ok {
		return userError("question %s not found", sl)
	}
	if !a.confirmer(cmd).Confirm(session.Intent{Action: session.ActionDelete, Target: sl}) {
		fmt.Fprintln(cmd.OutOrStdout(), cancelled)
		return nil
	}

	errCh := make(chan error, 1)
	if !r.cache.Remove(cmd.Context(), sl, func(err error) { errCh <- err }) {
		return userError("question %s not found", sl)
	}
	if err := <-errCh; err != nil {
		return backendError("Failed to delete question", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Question deleted successfully")
	return nil
}

func newDeleteAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every stored question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return a.deleteAll(cmd, r)
		},
	}
}

func (a *app) deleteAll(cmd *cobra.Command, r *remote) error {
	intent := session.Intent{Action: session.ActionDeleteAll, Count: r.cache.Len()}
	if !a.confirmer(cmd).Confirm(intent) {
		fmt.Fprintln(cmd.OutOrStdout(), cancelled)
		return nil
	}

	errCh := make(chan error, 1)
	r.cache.RemoveAll(cmd.Context(), func(err error) { errCh <- err })
	if err := <-errCh; err != nil {
		return backendError("Failed to delete questions", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All questions deleted successfully")
	return nil
}
