package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/archive"
	"github.com/mesh-intelligence/quizbank/internal/paths"
	"github.com/mesh-intelligence/quizbank/internal/session"
)

// exportOptions are the flags of the export command and shell verb.
type exportOptions struct {
	format   string
	out      string
	category string
	toS3     bool
}

func newExportCmd(a *app) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored questions to a file or S3 bucket",
		Long: `Export fetches every question (or one category) and writes it as JSON,
JSONL, YAML or CSV. The JSON form can be posted back to /save-questions.

Without --out the file is named questions-<timestamp>.<format> in the
current directory. With --s3 the object goes to the bucket configured under
archive.s3 in config.yaml.

Example:
  quizbank export --out bank.yaml
  quizbank export --format csv --category Math
  quizbank export --s3 --format jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return a.export(cmd, r, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "json, jsonl, yaml or csv (default: from --out extension, else json)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "destination file or object key")
	cmd.Flags().StringVarP(&opts.category, "category", "c", session.AllCategories, "category to export")
	cmd.Flags().BoolVar(&opts.toS3, "s3", false, "upload to the configured S3 bucket")

	return cmd
}

func (o exportOptions) resolveFormat() (archive.Format, error) {
	switch {
	case o.format != "":
		return archive.ParseFormat(o.format)
	case o.out != "":
		return archive.FormatFromPath(o.out)
	}
	return archive.FormatJSON, nil
}

func (a *app) export(cmd *cobra.Command, r *remote, opts exportOptions) error {
	format, err := opts.resolveFormat()
	if err != nil {
		return userError("%v", err)
	}

	var sink archive.Sink = archive.FileSink{Dir: "."}
	if opts.toS3 {
		s3sink, err := archive.NewS3Sink(cmd.Context(), a.s3Config())
		if err != nil {
			return userError("s3 export: %v (set archive.s3.bucket in %s)", err, paths.ConfigFile(a.configDir))
		}
		sink = s3sink
	}

	questions := session.Filter(r.cache.Snapshot(), opts.category)
	loc, err := archive.Export(cmd.Context(), sink, opts.out, format, questions)
	if err != nil {
		return sysError("export", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d question(s) to %s\n", len(questions), loc)
	return nil
}
