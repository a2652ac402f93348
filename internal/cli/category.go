package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(a.newCategoryAddCmd(), a.newCategoryListCmd())
	return cmd
}

func (a *app) newCategoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Long: `Add a category with a colour from the palette. When a category with the
same name (ignoring case) exists, its id is printed and nothing changes.`,
		Args: args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			before := len(st.Categories())
			id, err := st.AddCategory(ctx, strings.Join(argv, " "))
			if err != nil {
				return err
			}
			c, _ := st.Category(id)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			verb := "Added"
			if len(st.Categories()) == before {
				verb = "Exists"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, badge(c), c.ID)
			return nil
		},
	}
}

func (a *app) newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with asset counts",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			cats := st.Categories()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), cats)
			}
			counts := make(map[string]int)
			for _, asset := range st.Assets() {
				counts[st.CategoryFor(asset.CategoryID).ID]++
			}
			total := len(st.Assets())
			for i, c := range cats {
				n := counts[c.ID]
				if i == 0 {
					n = total
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s %s\n", c.ID, badge(c), subtleStyle.Render(fmt.Sprintf("(%d)", n)))
			}
			return nil
		},
	}
}
