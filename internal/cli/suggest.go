package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/suggest"
)

func (a *app) newSuggestCmd() *cobra.Command {
	var applyID string
	cmd := &cobra.Command{
		Use:   "suggest [description...]",
		Short: "Ask for a title, category and tags",
		Long: `Send a description to the suggestion service and print the proposed title,
category and tags.

With --apply <id>, the suggestion is merged into that asset: the title replaces
its name, the category is matched or created, and tags are added. Without a
description, the asset's description (or name) is used.`,
		RunE: func(cmd *cobra.Command, argv []string) error {
			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			text := strings.TrimSpace(strings.Join(argv, " "))
			var d *catalog.Draft
			if applyID != "" {
				asset, err := st.Asset(applyID)
				if err != nil {
					return err
				}
				d = catalog.DraftFromAsset(asset)
				if text == "" {
					if text, err = d.Prompt(); err != nil {
						return err
					}
				}
			}

			sug, err := a.suggester(st).Suggest(ctx, text, st.CategoryNames())
			if err != nil {
				return fmt.Errorf("suggestion failed: %w", err)
			}

			if d != nil {
				if err := d.ApplySuggestion(ctx, st, sug); err != nil {
					return err
				}
				if _, err := st.UpdateAsset(ctx, applyID, d.Data()); err != nil {
					return err
				}
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), sug)
			}
			printSuggestion(cmd, sug)
			if d != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied to %s\n", applyID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&applyID, "apply", "", "merge the suggestion into the asset with this id")
	return cmd
}

func printSuggestion(cmd *cobra.Command, s suggest.Suggestion) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Title:   "), s.Title)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Category:"), s.Category)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Tags:    "), formatTags(s.Tags))
	if s.Reasoning != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Why:     "), subtleStyle.Render(s.Reasoning))
	}
}
