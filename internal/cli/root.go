// Package cli implements the quizbank command-line interface: the HTTP
// backend (serve) and the client commands that drive a session against it.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/quizbank/internal/paths"
	"github.com/mesh-intelligence/quizbank/internal/session"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "0.1.0"

// app holds global flag values and per-invocation state shared by all
// subcommands.
type app struct {
	configDir string
	dataDir   string
	server    string
	jsonMode  bool
	yes       bool
	verbose   bool

	v     *viper.Viper
	log   *slog.Logger
	input *bufio.Reader
}

// NewRootCmd creates the top-level "quizbank" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "quizbank",
		Short: "Manage a bank of multiple-choice quiz questions",
		Long: `quizbank stores quiz questions behind a small JSON/HTTP backend and
manages them from the command line: import CSV files, browse by category,
edit, delete and export.

Start the backend with "quizbank serve", then use the other commands
against it (default http://localhost:9000).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory for the sqlite backend (default: platform data dir)")
	pf.StringVar(&a.server, "server", "", "backend URL (default: "+defaultServer+")")
	pf.BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newCategoriesCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newDeleteAllCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newShellCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves directories, loads config.yaml and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
	slog.SetDefault(a.log)

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError("resolve config dir", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError("load config", err)
	}
	if a.server != "" {
		v.Set(cfgKeyServer, a.server)
	}
	a.configDir = configDir
	a.v = v
	a.log.Debug("config loaded", "dir", configDir, "file", v.ConfigFileUsed())
	return nil
}

// resolveDataDir applies --data-dir > data_dir > QUIZBANK_DATA_DIR > default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.v.GetString(cfgKeyDataDir))
}

// reader returns the shared stdin reader. Prompts and the shell read from
// the same buffer so neither loses input.
func (a *app) reader(cmd *cobra.Command) *bufio.Reader {
	if a.input == nil {
		a.input = bufio.NewReader(cmd.InOrStdin())
	}
	return a.input
}

// confirmer returns the prompt used before mutations. --yes approves all.
func (a *app) confirmer(cmd *cobra.Command) session.Confirmer {
	if a.yes {
		return session.AlwaysConfirm
	}
	return promptConfirmer{in: a.reader(cmd), out: cmd.OutOrStdout()}
}

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func userError(format string, args ...any) error {
	return &ExitError{Code: exitUserError, Message: fmt.Sprintf(format, args...)}
}

func sysError(message string, err error) error {
	return &ExitError{Code: exitSysError, Message: message, Err: err}
}

// exitCode maps err to a process exit code. Errors from cobra itself
// (unknown command, bad flags) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return exitUserError
}

// newLogger builds the process logger: text on stderr, Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
