package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// assetFlags are the form fields shared by add and edit.
type assetFlags struct {
	name        string
	source      string
	image       string
	category    string
	description string
	tags        []string
	suggest     bool
}

func (f *assetFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "asset name")
	fs.StringVar(&f.source, "source", "", "link to the hosted model or mod file")
	fs.StringVar(&f.image, "image", "", "thumbnail image link")
	fs.StringVar(&f.category, "category", "", "category id or name")
	fs.StringVar(&f.description, "description", "", "free-text description")
	fs.StringSliceVar(&f.tags, "tag", nil, "tag (repeatable or comma-separated)")
	fs.BoolVar(&f.suggest, "suggest", false, "ask the suggestion service for a title, category and tags first")
}

// apply copies every flag the user set onto d.
func (f *assetFlags) apply(cmd *cobra.Command, st *catalog.Store, d *catalog.Draft) error {
	fs := cmd.Flags()
	if fs.Changed("name") {
		d.Name = f.name
	}
	if fs.Changed("source") {
		d.SourceURL = f.source
	}
	if fs.Changed("image") {
		d.ImageURL = f.image
	}
	if fs.Changed("description") {
		d.Description = f.description
	}
	if fs.Changed("category") {
		id, err := resolveCategory(st, f.category)
		if err != nil {
			return err
		}
		d.CategoryID = id
	}
	if fs.Changed("tag") {
		d.Tags = []string{}
		for _, t := range f.tags {
			d.AddTag(t)
		}
	}
	return nil
}

// resolveCategory accepts a category id or a case-insensitive name.
func resolveCategory(st *catalog.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if c, ok := st.Category(ref); ok {
		return c.ID, nil
	}
	if c, ok := catalog.FindByName(st.Categories(), ref); ok {
		return c.ID, nil
	}
	return "", fmt.Errorf("category %q: %w (create it with 'forge category add')", ref, types.ErrNotFound)
}

// applySuggestion asks the suggestion service about d and merges the answer.
func (a *app) applySuggestion(ctx context.Context, st *catalog.Store, d *catalog.Draft) error {
	prompt, err := d.Prompt()
	if err != nil {
		return err
	}
	sug, err := a.suggester(st).Suggest(ctx, prompt, st.CategoryNames())
	if err != nil {
		return fmt.Errorf("suggestion failed: %w", err)
	}
	return d.ApplySuggestion(ctx, st, sug)
}

func (a *app) newAddCmd() *cobra.Command {
	var f assetFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an asset to the catalogue",
		Long: `Add a new asset. Name, source and image links are required.

With --suggest, the description (or the name) is sent to the suggestion service
first; its title, category and tags are merged before flags are validated.

Example:
  forge add --name "Rusty Sword" --source https://example.com/sword.zip \
    --image https://example.com/sword.png --category weapons --tag fantasy`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			d := catalog.NewDraft(st.Categories())
			if err := f.apply(cmd, st, d); err != nil {
				return err
			}
			if f.suggest {
				if err := a.applySuggestion(ctx, st, d); err != nil {
					return err
				}
			}
			asset, err := st.AddAsset(ctx, d.Data())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), asset)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", asset.Name, asset.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	var f assetFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an asset",
		Long: `Change fields of an existing asset. Only the flags given are changed;
--tag replaces the whole tag list. The id and creation time never change.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			asset, err := st.Asset(argv[0])
			if err != nil {
				return err
			}
			d := catalog.DraftFromAsset(asset)
			if err := f.apply(cmd, st, d); err != nil {
				return err
			}
			if f.suggest {
				if err := a.applySuggestion(ctx, st, d); err != nil {
					return err
				}
			}
			if _, err := st.UpdateAsset(ctx, asset.ID, d.Data()); err != nil {
				return err
			}
			updated, err := st.Asset(asset.ID)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// promptConfirmer asks a y/N question on out and reads the answer from in.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// confirmer returns a Confirmer that approves without asking when yes is set.
func confirmer(cmd *cobra.Command, yes bool) catalog.Confirmer {
	if yes {
		return catalog.ConfirmFunc(func(string) bool { return true })
	}
	return promptConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
}

func (a *app) newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an asset",
		Long:  "Remove an asset from the catalogue after confirmation. Categories are never removed.",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			id := argv[0]
			removed, err := st.DeleteAsset(ctx, id, confirmer(cmd, yes))
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("asset %q: %w", id, types.ErrNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one asset",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			asset, err := st.Asset(argv[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), asset)
			}
			printAsset(cmd.OutOrStdout(), st, asset)
			return nil
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	var (
		category string
		tags     []string
		search   string
		sortBy   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		Long: `List assets filtered by category, tags and search text.

Every --tag must be present on an asset. --search matches the name or
description, ignoring case. --sort is newest (default), oldest or alphabetical.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			sortOpt, err := types.ParseSortOption(sortBy)
			if err != nil {
				return err
			}

			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			filter := catalog.Filter{Search: search, Sort: sortOpt}
			if category != "" {
				if filter.Category, err = resolveCategory(st, category); err != nil {
					return err
				}
			}
			for _, t := range tags {
				if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
					filter.Tags = append(filter.Tags, t)
				}
			}

			assets := st.View(filter)
			logging.Debugf("cli: list matched %d of %d assets", len(assets), len(st.Assets()))
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), assets)
			}
			printAssetTable(cmd.OutOrStdout(), st, assets)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&category, "category", "", "category id or name")
	fs.StringSliceVar(&tags, "tag", nil, "required tag (repeatable)")
	fs.StringVar(&search, "search", "", "case-insensitive text in name or description")
	fs.StringVar(&sortBy, "sort", "", "sort order: newest, oldest or alphabetical")
	return cmd
}

func (a *app) newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			tags := st.AvailableTags()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), tags)
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func (a *app) newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy an asset's source link to the clipboard",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			asset, err := st.Asset(argv[0])
			if err != nil {
				return err
			}
			if err := a.copyText(asset.SourceURL); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s\n", asset.SourceURL)
			return nil
		},
	}
}

// nowMillis is the current time in milliseconds since the Unix epoch.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// errDeclined reports a confirmation the user turned down.
func errDeclined() error {
	return fmt.Errorf("cancelled: %w", types.ErrDeclined)
}

func formatCreated(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
