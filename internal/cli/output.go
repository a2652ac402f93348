package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/pkg/types"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// badge renders a category name in its colour.
func badge(c types.Category) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("● " + c.Name)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

// printAssetTable renders assets as a table with colour-coded categories.
func printAssetTable(w io.Writer, st *catalog.Store, assets []types.Asset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No assets found."))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("ID", "NAME", "CATEGORY", "TAGS")
	for _, a := range assets {
		t.Row(a.ID, a.Name, badge(st.CategoryFor(a.CategoryID)), formatTags(a.Tags))
	}
	fmt.Fprintln(w, t.Render())
}

// printAsset writes the full detail of one asset.
func printAsset(w io.Writer, st *catalog.Store, a types.Asset) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), value)
	}
	row("ID", a.ID)
	row("Name", a.Name)
	row("Category", badge(st.CategoryFor(a.CategoryID)))
	row("Source", a.SourceURL)
	row("Image", a.ImageURL)
	if a.Description != "" {
		row("Description", a.Description)
	}
	if len(a.Tags) > 0 {
		row("Tags", formatTags(a.Tags))
	}
	row("Created", formatCreated(a.CreatedAt))
}
