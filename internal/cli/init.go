package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forge/internal/config"
	"github.com/mesh-intelligence/forge/internal/paths"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize forge configuration and storage",
		Long: `Create the configuration directory with a default config.yaml, then open the
storage backend once so its data directory or tables exist.

Running init again is safe: an existing config.yaml is left untouched.`,
		Args: args(cobra.NoArgs),
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, _ []string) error {
	defaults := a.settings
	defaults.Suggest.APIKey = ""
	if a.flags.dataDir != "" {
		defaults.DataDir = a.dataDir
	}
	written, err := config.WriteDefault(a.configDir, defaults)
	if err != nil {
		return err
	}

	st, done, err := a.open(cmd.Context())
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer done()

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", paths.ConfigFile(a.configDir))
	}
	fmt.Fprintf(out, "forge initialized (%s backend, %d assets, %d categories)\n",
		a.settings.Backend, len(st.Assets()), len(st.Categories()))
	return nil
}
