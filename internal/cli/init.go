package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/paths"
	"github.com/mesh-intelligence/quizbank/pkg/store"
	"github.com/mesh-intelligence/quizbank/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and local storage",
		Long: `Init writes a default config.yaml if none exists, then attaches and
detaches the configured record store so its files or tables exist before
the first "quizbank serve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.storeConfig()
			if err != nil {
				return sysError("resolve data dir", err)
			}
			if err := cfg.Validate(); err != nil {
				return userError("invalid store config: %v", err)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return sysError("initialize storage", err)
			}
			if err := st.Detach(); err != nil {
				return sysError("finalize storage", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", paths.ConfigFile(a.configDir))
			if cfg.Backend == types.BackendSQLite {
				fmt.Fprintf(out, "Data:   %s\n", cfg.DataDir)
			}
			fmt.Fprintln(out, "quizbank initialized successfully")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the quizbank version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "quizbank v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}

const modulePath = "github.com/mesh-intelligence/quizbank"
