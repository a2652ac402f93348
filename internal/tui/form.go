package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/suggest"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// Form fields in focus order. The text inputs come first.
const (
	fieldSource = iota
	fieldImage
	fieldName
	fieldDescription
	fieldNewTag
	fieldCategory
	fieldTags
	fieldCount
)

const suggestFailed = "AI Suggestion Failed. Check your API Key or try again."

// suggestionMsg delivers the result of an asynchronous suggestion request.
type suggestionMsg struct {
	ticket     suggest.Ticket
	suggestion suggest.Suggestion
	err        error
}

// formClosedMsg is sent when the form is saved or cancelled. saved holds the
// status line to show, empty on cancel.
type formClosedMsg struct {
	saved string
}

type formModel struct {
	ctx       context.Context
	store     *catalog.Store
	suggester suggest.Suggester
	tracker   *suggest.Tracker

	editing *types.Asset
	draft   *catalog.Draft

	inputs    []textinput.Model
	focus     int
	tagCursor int

	suggesting bool
	missing    []string
	err        error
}

func newFormModel(ctx context.Context, st *catalog.Store, s suggest.Suggester, tr *suggest.Tracker, editing *types.Asset) *formModel {
	f := &formModel{
		ctx:       ctx,
		store:     st,
		suggester: s,
		tracker:   tr,
		editing:   editing,
		inputs:    make([]textinput.Model, fieldCategory),
	}
	if editing != nil {
		f.draft = catalog.DraftFromAsset(*editing)
	} else {
		f.draft = catalog.NewDraft(st.Categories())
	}

	prompts := []struct{ prompt, placeholder string }{
		fieldSource:      {"Source link:  ", "https://..."},
		fieldImage:       {"Image link:   ", "https://.../thumbnail.png"},
		fieldName:        {"Name:         ", "Rusty Sword"},
		fieldDescription: {"Description:  ", "What is this asset?"},
		fieldNewTag:      {"New tag:      ", "press enter to add"},
	}
	for i := range f.inputs {
		t := textinput.New()
		t.Prompt = prompts[i].prompt
		t.Placeholder = prompts[i].placeholder
		t.CharLimit = 500
		t.Width = 50
		f.inputs[i] = t
	}
	f.inputs[fieldSource].SetValue(f.draft.SourceURL)
	f.inputs[fieldImage].SetValue(f.draft.ImageURL)
	f.inputs[fieldName].SetValue(f.draft.Name)
	f.inputs[fieldDescription].SetValue(f.draft.Description)
	f.inputs[fieldSource].Focus()
	return f
}

// choices returns the categories an asset can be filed under.
func (f *formModel) choices() []types.Category {
	var out []types.Category
	for _, c := range f.store.Categories() {
		if c.ID != types.CategoryAll {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return f.store.Categories()
	}
	return out
}

// tagChoices returns the known tags followed by tags only this draft has.
func (f *formModel) tagChoices() []string {
	tags := f.store.AvailableTags()
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[t] = true
	}
	for _, t := range f.draft.Tags {
		if !seen[t] {
			tags = append(tags, t)
		}
	}
	return tags
}

// sync copies the text inputs into the draft.
func (f *formModel) sync() {
	f.draft.SourceURL = f.inputs[fieldSource].Value()
	f.draft.ImageURL = f.inputs[fieldImage].Value()
	f.draft.Name = f.inputs[fieldName].Value()
	f.draft.Description = f.inputs[fieldDescription].Value()
}

func (f *formModel) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

func (f *formModel) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return closeForm("")
	case "tab", "down":
		return f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return f.setFocus(f.focus - 1)
	case "ctrl+s":
		return f.save()
	case "ctrl+g":
		return f.requestSuggestion()
	}

	switch f.focus {
	case fieldCategory:
		f.cycleCategory(msg.String())
		return nil
	case fieldTags:
		f.updateTagPicker(msg.String())
		return nil
	case fieldNewTag:
		if msg.String() == "enter" {
			f.draft.AddTag(f.inputs[fieldNewTag].Value())
			f.inputs[fieldNewTag].SetValue("")
			return nil
		}
	default:
		if msg.String() == "enter" {
			return f.setFocus(f.focus + 1)
		}
	}
	return f.updateInputs(msg)
}

// updateInputs forwards msg to the focused text input.
func (f *formModel) updateInputs(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *formModel) cycleCategory(key string) {
	cats := f.choices()
	idx := 0
	for i, c := range cats {
		if c.ID == f.draft.CategoryID {
			idx = i
		}
	}
	switch key {
	case "right", "l", " ", "space":
		idx = (idx + 1) % len(cats)
	case "left", "h":
		idx = (idx - 1 + len(cats)) % len(cats)
	default:
		return
	}
	f.draft.CategoryID = cats[idx].ID
}

func (f *formModel) updateTagPicker(key string) {
	tags := f.tagChoices()
	switch key {
	case "right", "l":
		if f.tagCursor < len(tags)-1 {
			f.tagCursor++
		}
	case "left", "h":
		if f.tagCursor > 0 {
			f.tagCursor--
		}
	case " ", "space", "enter":
		if f.tagCursor < len(tags) {
			f.draft.ToggleTag(tags[f.tagCursor])
		}
	}
}

// requestSuggestion starts an asynchronous suggestion for the current draft.
func (f *formModel) requestSuggestion() tea.Cmd {
	if f.suggesting {
		return nil
	}
	f.sync()
	prompt, err := f.draft.Prompt()
	if err != nil {
		f.err = err
		return nil
	}
	if f.suggester == nil {
		f.err = types.ErrMissingAPIKey
		return nil
	}

	f.err = nil
	f.suggesting = true
	ticket := f.tracker.Begin()
	ctx, s, cats := f.ctx, f.suggester, f.store.CategoryNames()
	return func() tea.Msg {
		sug, err := s.Suggest(ctx, prompt, cats)
		return suggestionMsg{ticket: ticket, suggestion: sug, err: err}
	}
}

// applySuggestion merges a suggestion result into the form.
func (f *formModel) applySuggestion(msg suggestionMsg) {
	f.suggesting = false
	if msg.err != nil {
		if errors.Is(msg.err, types.ErrMissingAPIKey) {
			f.err = msg.err
		} else {
			f.err = fmt.Errorf("%s (%v)", suggestFailed, msg.err)
		}
		return
	}
	f.sync()
	if err := f.draft.ApplySuggestion(f.ctx, f.store, msg.suggestion); err != nil {
		f.err = err
		return
	}
	f.inputs[fieldName].SetValue(f.draft.Name)
	f.err = nil
}

func (f *formModel) save() tea.Cmd {
	f.sync()
	var verr *types.ValidationError
	if err := f.draft.Validate(); errors.As(err, &verr) {
		f.missing = verr.Fields
		return nil
	}
	f.missing = nil

	if f.editing != nil {
		ok, err := f.store.UpdateAsset(f.ctx, f.editing.ID, f.draft.Data())
		if !ok {
			f.err = fmt.Errorf("asset %q: %w", f.editing.ID, types.ErrNotFound)
			return nil
		}
		return closeForm(withWarning("Updated "+f.draft.Name, err))
	}
	a, err := f.store.AddAsset(f.ctx, f.draft.Data())
	if a.ID == "" {
		f.err = err
		return nil
	}
	return closeForm(withWarning("Added "+a.Name, err))
}

// withWarning appends a persistence failure to a status line. The change is
// kept in memory either way.
func withWarning(status string, err error) string {
	if err == nil {
		return status
	}
	return fmt.Sprintf("%s (not saved: %v)", status, err)
}

func closeForm(status string) tea.Cmd {
	return func() tea.Msg { return formClosedMsg{saved: status} }
}

// isMissing reports whether field failed validation on the last save.
func (f *formModel) isMissing(field string) bool {
	for _, m := range f.missing {
		if m == field {
			return true
		}
	}
	return false
}
