package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/session"
)

// viewOptions are the list filters shared by list and the shell.
type viewOptions struct {
	category string
	display  string
	page     int // 1-based
	pageSize int
}

// projector converts user-facing view options to a Projector.
func (o viewOptions) projector() (session.Projector, error) {
	limit, err := session.ParseDisplayCount(o.display)
	if err != nil {
		return session.Projector{}, userError("%v (choices: 20, 50, 100, All)", err)
	}
	if o.page < 1 {
		return session.Projector{}, userError("page must be 1 or greater")
	}
	if o.pageSize < 0 {
		return session.Projector{}, userError("page size must not be negative")
	}
	return session.Projector{
		Category: o.category,
		Limit:    limit,
		PageSize: o.pageSize,
		Page:     o.page - 1,
	}, nil
}

func newListCmd(a *app) *cobra.Command {
	opts := viewOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show questions, filtered by category and paged",
		Long: `List fetches every question from the backend and shows a table of the
first --display rows in the selected category, one page at a time.

Cells are shortened to their first two words; use --json for full values.

Example:
  quizbank list
  quizbank list --category Math --display 50 --page 2
  quizbank list --display All --page-size 0 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("display") {
				opts.display = a.v.GetString(cfgKeyDisplay)
			}
			if !cmd.Flags().Changed("page-size") {
				opts.pageSize = a.v.GetInt(cfgKeyPageSize)
			}
			p, err := opts.projector()
			if err != nil {
				return err
			}

			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			view := p.Project(r.cache)
			if a.jsonMode {
				return renderJSON(cmd.OutOrStdout(), projectionJSON(view))
			}
			if err := renderTable(cmd.OutOrStdout(), view.Rows); err != nil {
				return err
			}
			renderFooter(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", session.AllCategories, "category to show (All for every category)")
	cmd.Flags().StringVarP(&opts.display, "display", "n", "", "rows to show: 20, 50, 100 or All (default from config)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page to show, starting at 1")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "rows per page, 0 disables paging (default from config)")

	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories present in the stored questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			cats := session.Categories(r.cache.Snapshot())
			if a.jsonMode {
				return renderJSON(cmd.OutOrStdout(), cats)
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
