package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/server"
	"github.com/mesh-intelligence/quizbank/pkg/store"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the question backend",
		Long: `Serve opens the configured record store and answers the quizbank JSON API
until interrupted.

Backends:
  sqlite    questions.jsonl in the data directory (default)
  postgres  the database named by --dsn or the dsn config key
  memory    process-local, lost on exit

Example:
  quizbank serve
  quizbank serve --listen :8080 --backend postgres --dsn postgres://localhost/quizbank`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, key := range []string{cfgKeyListen, cfgKeyBackend, cfgKeyDSN} {
				if err := a.v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
					return sysError("bind flag "+key, err)
				}
			}
			return a.serve(cmd)
		},
	}

	cmd.Flags().String(cfgKeyListen, server.DefaultAddr, "address to listen on")
	cmd.Flags().String(cfgKeyBackend, "", "record store: sqlite, postgres or memory (default from config)")
	cmd.Flags().String(cfgKeyDSN, "", "postgres connection string")

	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	cfg, err := a.storeConfig()
	if err != nil {
		return sysError("resolve data dir", err)
	}
	if err := cfg.Validate(); err != nil {
		return userError("invalid store config: %v", err)
	}

	a.log.Info("opening store", "backend", cfg.Backend, "data_dir", cfg.DataDir)
	st, err := store.Open(cfg)
	if err != nil {
		return sysError("open store", err)
	}
	defer func() {
		if err := st.Detach(); err != nil {
			a.log.Error("error closing store", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := a.v.GetString(cfgKeyListen)
	fmt.Fprintf(cmd.OutOrStdout(), "quizbank backend listening on %s (%s). Press Ctrl-C to stop.\n", addr, cfg.Backend)

	srv := server.New(st, server.WithLogger(a.log))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return sysError("server error", err)
	}
	a.log.Info("server stopped")
	return nil
}
