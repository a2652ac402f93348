package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/forge/internal/theme"
	"github.com/mesh-intelligence/forge/pkg/types"
)

const (
	colorSubtle    = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("#6366f1")
	colorError     = lipgloss.Color("#ef4444")
	colorSuccess   = lipgloss.Color("#10b981")
)

// styles holds the lipgloss styles for one background.
type styles struct {
	header    lipgloss.Style
	title     lipgloss.Style
	subtle    lipgloss.Style
	selected  lipgloss.Style
	err       lipgloss.Style
	success   lipgloss.Style
	dialog    lipgloss.Style
	activeTab lipgloss.Style
	chip      lipgloss.Style
	chipOn    lipgloss.Style
}

// newStyles derives styles from the stored background. Dark backgrounds get
// light header text.
func newStyles(background string) styles {
	fg := lipgloss.Color("#0f172a")
	if theme.IsDark(background) {
		fg = lipgloss.Color("#f8fafc")
	}
	bg := lipgloss.Color(theme.PickerColor(background, theme.Default().Color))

	return styles{
		header:    lipgloss.NewStyle().Foreground(fg).Background(bg).Bold(true).Padding(0, 2),
		title:     lipgloss.NewStyle().Foreground(colorHighlight).Bold(true).Padding(1, 0, 0, 0),
		subtle:    lipgloss.NewStyle().Foreground(colorSubtle),
		selected:  lipgloss.NewStyle().Foreground(colorHighlight).Bold(true),
		err:       lipgloss.NewStyle().Foreground(colorError),
		success:   lipgloss.NewStyle().Foreground(colorSuccess),
		dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(1, 2),
		activeTab: lipgloss.NewStyle().Bold(true).Underline(true),
		chip:      lipgloss.NewStyle().Foreground(colorSubtle),
		chipOn:    lipgloss.NewStyle().Foreground(colorHighlight).Bold(true),
	}
}

// badge renders a category name in its colour.
func badge(c types.Category) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("● " + c.Name)
}
