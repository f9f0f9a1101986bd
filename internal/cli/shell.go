package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/session"
)

const shellHelp = `Commands:
  list                      show the current page
  next, prev                move between pages
  page <n>                  jump to page n
  category <name|All>       filter by category
  display <20|50|100|All>   rows to show
  categories                list categories
  show <sl>                 print one question in full
  import <file.csv>         append a CSV file (kept until save)
  edit <sl> <field=value>   change fields (kept until save)
  delete <sl>               delete one question now
  delete-all                delete every question now
  save                      replace the stored collection with this session
  reload                    discard local changes and fetch again
  export [path] [format]    write the current category to a file
  export s3 [format]        upload the current category to S3
  help                      show this help
  quit, exit                leave the shell
`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse and edit questions interactively",
		Long: `Shell fetches the stored questions once and keeps them for the whole
session. Imports and edits stay local until "save"; deletes go to the
backend immediately. Leaving with unsaved changes asks first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			s := &shell{
				a:   a,
				cmd: cmd,
				r:   r,
				in:  a.reader(cmd),
				out: cmd.OutOrStdout(),
				view: viewOptions{
					category: session.AllCategories,
					display:  a.v.GetString(cfgKeyDisplay),
					page:     1,
					pageSize: a.v.GetInt(cfgKeyPageSize),
				},
			}
			return s.run()
		},
	}
}

// shell is one interactive session.
type shell struct {
	a    *app
	cmd  *cobra.Command
	r    *remote
	in   *bufio.Reader
	out  io.Writer
	view viewOptions
}

func (s *shell) run() error {
	fmt.Fprintf(s.out, "%d question(s) loaded. Type help for commands.\n", s.r.cache.Len())
	for {
		fmt.Fprint(s.out, "quizbank> ")
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(s.out)
			if s.r.cache.Unsaved() {
				fmt.Fprintln(s.out, "Unsaved changes discarded.")
			}
			return nil
		}

		args := splitFields(line)
		if len(args) == 0 {
			continue
		}
		quit, err := s.exec(args)
		if err != nil {
			fmt.Fprintln(s.out, "Error:", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one shell command. It reports whether the shell should exit.
func (s *shell) exec(args []string) (bool, error) {
	ctx := s.cmd.Context()
	verb, rest := strings.ToLower(args[0]), args[1:]

	switch verb {
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "list", "ls":
		return false, s.list()
	case "next":
		s.view.page++
		return false, s.list()
	case "prev":
		if s.view.page > 1 {
			s.view.page--
		}
		return false, s.list()
	case "page":
		n, err := oneInt(rest)
		if err != nil || n < 1 {
			return false, errors.New("usage: page <n>")
		}
		s.view.page = n
		return false, s.list()
	case "category", "cat":
		if len(rest) == 0 {
			return false, errors.New("usage: category <name|All>")
		}
		s.view.category = strings.Join(rest, " ")
		s.view.page = 1
		return false, s.list()
	case "display":
		if len(rest) != 1 {
			return false, errors.New("usage: display <20|50|100|All>")
		}
		if _, err := session.ParseDisplayCount(rest[0]); err != nil {
			return false, err
		}
		s.view.display = rest[0]
		s.view.page = 1
		return false, s.list()
	case "categories":
		for _, c := range session.Categories(s.r.cache.Snapshot()) {
			fmt.Fprintln(s.out, c)
		}
	case "show":
		if len(rest) != 1 {
			return false, errors.New("usage: show <sl>")
		}
		q, ok := s.r.cache.Get(rest[0])
		if !ok {
			return false, fmt.Errorf("question %s not found", rest[0])
		}
		return false, renderDetail(s.out, q)
	case "import":
		if len(rest) != 1 {
			return false, errors.New("usage: import <file.csv>")
		}
		return false, s.a.importFile(s.cmd, s.r, rest[0], false)
	case "edit":
		if len(rest) < 2 {
			return false, errors.New("usage: edit <sl> <field=value>...")
		}
		return false, s.a.editQuestion(s.cmd, s.r, rest[0], rest[1:], false)
	case "delete", "rm":
		if len(rest) != 1 {
			return false, errors.New("usage: delete <sl>")
		}
		return false, s.a.deleteQuestion(s.cmd, s.r, rest[0])
	case "delete-all":
		return false, s.a.deleteAll(s.cmd, s.r)
	case "save":
		intent := session.Intent{Action: session.ActionSave, Count: s.r.cache.Len()}
		if !s.a.confirmer(s.cmd).Confirm(intent) {
			fmt.Fprintln(s.out, cancelled)
			return false, nil
		}
		return false, s.r.save(ctx, s.cmd)
	case "reload":
		if s.r.cache.Unsaved() && !s.a.confirmer(s.cmd).Confirm(session.Intent{Action: session.ActionDiscard}) {
			fmt.Fprintln(s.out, cancelled)
			return false, nil
		}
		if err := s.r.bridge.FetchAll(ctx); err != nil {
			return false, backendError("Failed to fetch questions", err)
		}
		fmt.Fprintf(s.out, "%d question(s) loaded.\n", s.r.cache.Len())
	case "export":
		return false, s.a.export(s.cmd, s.r, s.exportOptions(rest))
	case "quit", "exit", "q":
		if s.r.cache.Unsaved() && !s.a.confirmer(s.cmd).Confirm(session.Intent{Action: session.ActionDiscard}) {
			return false, nil
		}
		s.r.cache.Wait()
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (type help)", verb)
	}
	return false, nil
}

func (s *shell) list() error {
	p, err := s.view.projector()
	if err != nil {
		return err
	}
	view := p.Project(s.r.cache)
	if view.Pages > 0 && s.view.page > view.Pages {
		s.view.page = view.Pages
		p.Page = view.Pages - 1
		view = p.Project(s.r.cache)
	}
	if err := renderTable(s.out, view.Rows); err != nil {
		return err
	}
	renderFooter(s.out, view)
	if s.r.cache.Unsaved() {
		fmt.Fprintln(s.out, "(unsaved changes)")
	}
	return nil
}

func (s *shell) exportOptions(args []string) exportOptions {
	opts := exportOptions{category: s.view.category}
	if len(args) > 0 && strings.EqualFold(args[0], "s3") {
		opts.toS3 = true
		args = args[1:]
	} else if len(args) > 0 {
		opts.out = args[0]
		args = args[1:]
	}
	if len(args) > 0 {
		opts.format = args[0]
	}
	return opts
}

func oneInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one number")
	}
	return strconv.Atoi(args[0])
}

// splitFields splits a shell line on whitespace. Double quotes group words
// and are removed.
func splitFields(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}
