package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forge/internal/archive"
)

func (a *app) newExportCmd() *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a backup of the catalogue",
		Long: `Write every asset and category to a JSON backup. Without a file the backup
goes to stdout. --zstd (implied by a .zst file name) compresses it with Zstandard.`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			bundle := archive.Bundle{
				ExportedAt: nowMillis(),
				Assets:     st.Assets(),
				Categories: st.Categories(),
			}

			if len(argv) == 0 {
				return archive.Export(cmd.OutOrStdout(), bundle, compress)
			}
			path := argv[0]
			if strings.HasSuffix(path, ".zst") {
				compress = true
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			if err := archive.Export(f, bundle, compress); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close backup file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d assets and %d categories to %s\n",
				len(bundle.Assets), len(bundle.Categories), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&compress, "zstd", false, "compress the backup with Zstandard")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the catalogue with a backup",
		Long: `Read a backup written by 'forge export' (plain or Zstandard-compressed, "-" for
stdin) and replace the current assets and categories with it. Legacy category
ids in the backup are migrated on the way in.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			var r io.Reader = cmd.InOrStdin()
			if argv[0] != "-" {
				f, err := os.Open(argv[0])
				if err != nil {
					return usageError{fmt.Errorf("open backup: %w", err)}
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			bundle, err := archive.Import(r)
			if err != nil {
				return usageError{err}
			}

			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			if argv[0] == "-" {
				yes = true
			}
			prompt := fmt.Sprintf("Replace %d assets with the %d in this backup?", len(st.Assets()), len(bundle.Assets))
			if !confirmer(cmd, yes).Confirm(prompt) {
				return errDeclined()
			}
			if err := st.Replace(ctx, bundle.Assets, bundle.Categories); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d assets and %d categories\n",
				len(st.Assets()), len(st.Categories()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
