package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/forge/internal/suggest"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// DefaultCategoryID returns the id new assets start in: the first category
// after "all", or "all" when no other category exists.
func DefaultCategoryID(categories []types.Category) string {
	if len(categories) > 1 {
		return categories[1].ID
	}
	return types.CategoryAll
}

// Draft is the editable state of an add or edit form.
type Draft struct {
	Name        string
	SourceURL   string
	ImageURL    string
	CategoryID  string
	Description string
	Tags        []string // Selected tags, lower-cased.
}

// NewDraft returns an empty form defaulted to the first real category.
func NewDraft(categories []types.Category) *Draft {
	return &Draft{CategoryID: DefaultCategoryID(categories), Tags: []string{}}
}

// DraftFromAsset returns a form populated from an existing asset.
func DraftFromAsset(a types.Asset) *Draft {
	d := a.Data()
	return &Draft{
		Name:        d.Name,
		SourceURL:   d.SourceURL,
		ImageURL:    d.ImageURL,
		CategoryID:  d.CategoryID,
		Description: d.Description,
		Tags:        types.NormalizeTags(d.Tags),
	}
}

// Data returns the form as asset data.
func (d *Draft) Data() types.AssetData {
	return types.AssetData{
		Name:        d.Name,
		SourceURL:   d.SourceURL,
		ImageURL:    d.ImageURL,
		CategoryID:  d.CategoryID,
		Description: d.Description,
		Tags:        append([]string{}, d.Tags...),
	}
}

// Validate reports missing required fields as a *types.ValidationError.
func (d *Draft) Validate() error {
	return d.Data().Validate()
}

// AddTag trims and lower-cases raw and selects it. It reports whether the
// tag was new.
func (d *Draft) AddTag(raw string) bool {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return false
	}
	for _, t := range d.Tags {
		if t == tag {
			return false
		}
	}
	d.Tags = append(d.Tags, tag)
	return true
}

// ToggleTag selects tag, or deselects it when already selected.
func (d *Draft) ToggleTag(tag string) {
	d.Tags = ToggleTag(d.Tags, tag)
}

// Prompt returns the text sent to the suggestion service: the description,
// or the name when the description is empty.
func (d *Draft) Prompt() (string, error) {
	if p := strings.TrimSpace(d.Description); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(d.Name); p != "" {
		return p, nil
	}
	return "", types.ErrEmptyPrompt
}

// ApplySuggestion merges a suggestion into the form. A non-empty title
// replaces the name; the category is matched by name or created through the
// store; suggested tags are lower-cased and merged into the selection.
func (d *Draft) ApplySuggestion(ctx context.Context, s *Store, sug suggest.Suggestion) error {
	category := d.CategoryID
	if strings.TrimSpace(sug.Category) != "" {
		id, err := s.AddCategory(ctx, sug.Category)
		if err != nil {
			return fmt.Errorf("apply suggested category: %w", err)
		}
		category = id
	}
	d.CategoryID = category
	if title := strings.TrimSpace(sug.Title); title != "" {
		d.Name = title
	}
	for _, t := range sug.Tags {
		d.AddTag(t)
	}
	return nil
}
