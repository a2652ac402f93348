// Package tui implements the interactive catalogue browser.
//
// The browser owns the catalogue store for its lifetime. Suggestion requests
// run as tea.Cmds; their results carry a suggest.Tracker ticket and are
// dropped once the form that asked has closed or a newer request started.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/suggest"
)

// Options configures the browser.
type Options struct {
	Suggester  suggest.Suggester
	Background string                  // Stored background value; selects light or dark styles.
	CopyText   func(text string) error // Clipboard writer.
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, st *catalog.Store, opts Options) error {
	p := tea.NewProgram(newModel(ctx, st, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
