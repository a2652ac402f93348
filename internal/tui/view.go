package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// listHeight is the number of rows shown when the window size is unknown.
const listHeight = 15

func (m model) View() string {
	if m.mode == modeForm && m.form != nil {
		return m.form.view(m.styles)
	}

	var b strings.Builder
	b.WriteString(m.styles.header.Render(fmt.Sprintf("FORGE  %d assets", len(m.store.Assets()))))
	b.WriteString("\n\n")
	b.WriteString(m.categoryBar())
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	switch m.mode {
	case modeTags:
		b.WriteString(m.tagPicker())
	case modeConfirmDelete:
		b.WriteString(m.styles.dialog.Render(catalog.DeletePrompt + "\n\n(y) yes   (n) no"))
	default:
		if m.mode == modeSearch {
			b.WriteString(m.search.View())
			b.WriteString("\n\n")
		}
		b.WriteString(m.assetList())
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(m.styles.success.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.subtle.Render(m.help()))
	return b.String()
}

func (m model) categoryBar() string {
	var parts []string
	for i, c := range m.store.Categories() {
		label := badge(c)
		if i == m.categoryIdx {
			label = m.styles.activeTab.Render("▸ ") + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (m model) filterLine() string {
	parts := []string{"sort: " + string(m.filter.Sort)}
	if len(m.filter.Tags) > 0 {
		parts = append(parts, "tags: "+hashTags(m.filter.Tags))
	}
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.filter.Search))
	}
	parts = append(parts, fmt.Sprintf("%d shown", len(m.visible)))
	return m.styles.subtle.Render(strings.Join(parts, "  │  "))
}

func (m model) assetList() string {
	if len(m.visible) == 0 {
		return m.styles.subtle.Render("No assets found. Press a to add one.")
	}
	rows := listHeight
	if m.height > 12 {
		rows = m.height - 12
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.visible))

	var b strings.Builder
	for i := start; i < end; i++ {
		a := m.visible[i]
		name := a.Name
		prefix := "  "
		if i == m.cursor {
			prefix = m.styles.selected.Render("› ")
			name = m.styles.selected.Render(name)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", prefix, name, badge(m.store.CategoryFor(a.CategoryID)), m.styles.subtle.Render(hashTags(a.Tags)))
	}
	if a, ok := m.current(); ok && a.Description != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.subtle.Render(a.Description))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) tagPicker() string {
	tags := m.store.AvailableTags()
	if len(tags) == 0 {
		return m.styles.subtle.Render("No tags yet.")
	}
	var b strings.Builder
	for i, t := range tags {
		box := "[ ]"
		if slices.Contains(m.filter.Tags, t) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t)
		if i == m.tagCursor {
			line = m.styles.selected.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m model) help() string {
	switch m.mode {
	case modeSearch:
		return "enter: done • esc: clear search"
	case modeTags:
		return "↑/↓: move • space: toggle • x: clear • t/esc: done"
	case modeConfirmDelete:
		return "y: delete • n/esc: keep"
	}
	return "tab: category • /: search • t: tags • s: sort • a: add • e: edit • d: delete • c: copy link • esc: reset • q: quit"
}

func (f *formModel) view(s styles) string {
	var b strings.Builder
	title := "Add New Asset"
	if f.editing != nil {
		title = "Edit Asset"
	}
	b.WriteString(s.title.Render(title))
	b.WriteString("\n\n")

	required := map[int]string{
		fieldSource: types.FieldSourceURL,
		fieldImage:  types.FieldImageURL,
		fieldName:   types.FieldName,
	}
	for i, in := range f.inputs {
		line := in.View()
		if field, ok := required[i]; ok && f.isMissing(field) {
			line += "  " + s.err.Render(types.FieldLabel(field)+" is required")
		}
		b.WriteString(line + "\n")
	}

	cat := f.store.CategoryFor(f.draft.CategoryID)
	catLine := "Category:     ◂ " + badge(cat) + " ▸"
	if f.focus == fieldCategory {
		catLine = s.selected.Render("› ") + catLine
	}
	b.WriteString("\n" + catLine + "\n")

	b.WriteString("Tags:         " + f.tagChips(s) + "\n\n")

	switch {
	case f.suggesting:
		b.WriteString(s.subtle.Render("Asking for suggestions…") + "\n")
	case f.err != nil:
		b.WriteString(s.err.Render(f.err.Error()) + "\n")
	}
	b.WriteString(s.subtle.Render("tab: next field • ctrl+g: suggest • ctrl+s: save • esc: cancel"))
	return b.String()
}

func (f *formModel) tagChips(s styles) string {
	tags := f.tagChoices()
	if len(tags) == 0 {
		return s.subtle.Render("(none yet; type one above)")
	}
	chips := make([]string, len(tags))
	for i, t := range tags {
		style := s.chip
		if slices.Contains(f.draft.Tags, t) {
			style = s.chipOn
		}
		chip := style.Render("#" + t)
		if f.focus == fieldTags && i == f.tagCursor {
			chip = lipgloss.NewStyle().Underline(true).Render(chip)
		}
		chips[i] = chip
	}
	return strings.Join(chips, " ")
}

func hashTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}
