package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forge/internal/theme"
	"github.com/mesh-intelligence/forge/internal/tui"
)

func (a *app) newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalogue interactively",
		Long: `Open the terminal browser. Keys:
  tab/shift+tab  cycle category      /  search        s  cycle sort
  t              pick tags           a  add asset     e  edit asset
  d              delete asset        c  copy link     q  quit`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			return a.runTUI(ctx, st, tui.Options{
				Suggester:  a.suggester(st),
				Background: theme.Resolve(st.Theme()),
				CopyText:   a.copyText,
			})
		},
	}
}
