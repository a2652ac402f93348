package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/internal/suggest"
	"github.com/mesh-intelligence/forge/pkg/types"
)

type mode int

const (
	modeList          mode = iota // Browsing the filtered list
	modeSearch                    // Typing into the search box
	modeTags                      // Picking filter tags
	modeConfirmDelete             // Waiting for y/n on a delete
	modeForm                      // Add or edit form open
)

// model is the top-level browser state.
type model struct {
	ctx    context.Context
	store  *catalog.Store
	opts   Options
	styles styles

	filter      catalog.Filter
	categoryIdx int
	visible     []types.Asset
	cursor      int

	mode          mode
	search        textinput.Model
	tagCursor     int
	pendingDelete string
	form          *formModel
	tracker       *suggest.Tracker

	status string
	err    error
	height int
	width  int
}

func newModel(ctx context.Context, st *catalog.Store, opts Options) model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search name or description"
	search.CharLimit = 120

	m := model{
		ctx:     ctx,
		store:   st,
		opts:    opts,
		styles:  newStyles(opts.Background),
		filter:  catalog.Filter{Category: types.CategoryAll, Sort: types.SortNewest},
		search:  search,
		tracker: &suggest.Tracker{},
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

// refresh recomputes the visible list and keeps the cursor in range.
func (m *model) refresh() {
	m.visible = m.store.View(m.filter)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// current returns the asset under the cursor.
func (m model) current() (types.Asset, bool) {
	if len(m.visible) == 0 {
		return types.Asset{}, false
	}
	return m.visible[m.cursor], true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case suggestionMsg:
		if m.mode != modeForm || m.form == nil || !m.tracker.Current(msg.ticket) {
			logging.Debugf("tui: dropping stale suggestion (ticket %d)", msg.ticket)
			return m, nil
		}
		m.form.applySuggestion(msg)
		return m, nil

	case formClosedMsg:
		m.tracker.Cancel()
		m.mode, m.form = modeList, nil
		if msg.saved != "" {
			m.status = msg.saved
			m.err = nil
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m, m.form.update(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeTags:
			return m.updateTags(msg), nil
		case modeConfirmDelete:
			return m.updateConfirm(msg), nil
		default:
			return m.updateList(msg)
		}
	}

	if m.mode == modeForm && m.form != nil {
		return m, m.form.updateInputs(msg)
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	cats := m.store.Categories()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "tab":
		m.categoryIdx = (m.categoryIdx + 1) % len(cats)
		m.filter.Category = cats[m.categoryIdx].ID
		m.refresh()
	case "shift+tab":
		m.categoryIdx = (m.categoryIdx - 1 + len(cats)) % len(cats)
		m.filter.Category = cats[m.categoryIdx].ID
		m.refresh()
	case "s":
		m.filter.Sort = m.filter.Sort.Next()
		m.refresh()
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.filter.Search)
		cmd := m.search.Focus()
		return m, cmd
	case "t":
		m.mode = modeTags
		m.tagCursor = 0
	case "esc":
		m.filter = catalog.Filter{Category: types.CategoryAll, Sort: m.filter.Sort}
		m.categoryIdx = 0
		m.refresh()
	case "d":
		if a, ok := m.current(); ok {
			m.pendingDelete = a.ID
			m.mode = modeConfirmDelete
		}
	case "c":
		if a, ok := m.current(); ok {
			m.copyLink(a)
		}
	case "a":
		m.form = newFormModel(m.ctx, m.store, m.opts.Suggester, m.tracker, nil)
		m.mode = modeForm
		return m, textinput.Blink
	case "e":
		if a, ok := m.current(); ok {
			m.form = newFormModel(m.ctx, m.store, m.opts.Suggester, m.tracker, &a)
			m.mode = modeForm
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *model) copyLink(a types.Asset) {
	if m.opts.CopyText == nil {
		m.err = fmt.Errorf("clipboard unavailable")
		return
	}
	if err := m.opts.CopyText(a.SourceURL); err != nil {
		m.err = fmt.Errorf("copy link: %w", err)
		return
	}
	m.status = "Copied " + a.SourceURL
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m model) updateTags(msg tea.KeyMsg) model {
	tags := m.store.AvailableTags()
	switch msg.String() {
	case "up", "k":
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case "down", "j":
		if m.tagCursor < len(tags)-1 {
			m.tagCursor++
		}
	case " ", "space":
		if m.tagCursor < len(tags) {
			m.filter.Tags = catalog.ToggleTag(m.filter.Tags, tags[m.tagCursor])
			m.refresh()
		}
	case "x":
		m.filter.Tags = nil
		m.refresh()
	case "t", "esc", "enter":
		m.mode = modeList
	}
	return m
}

func (m model) updateConfirm(msg tea.KeyMsg) model {
	switch strings.ToLower(msg.String()) {
	case "y":
		id := m.pendingDelete
		m.pendingDelete, m.mode = "", modeList
		_, err := m.store.DeleteAsset(m.ctx, id, catalog.ConfirmFunc(func(string) bool { return true }))
		if err != nil {
			m.err = err
		} else {
			m.status = "Asset removed"
		}
		m.refresh()
	case "n", "esc":
		m.pendingDelete, m.mode = "", modeList
	}
	return m
}
