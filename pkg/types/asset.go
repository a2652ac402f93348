package types

import (
	"fmt"
	"strings"
)

// Asset is a catalogued reference to an externally hosted 3D model or mod
// file plus its metadata.
type Asset struct {
	ID          string   `json:"id"`          // UUID, assigned on creation.
	Name        string   `json:"name"`        // Display name (required).
	SourceURL   string   `json:"sourceUrl"`   // Link to the hosted file (required).
	ImageURL    string   `json:"imageUrl"`    // Thumbnail link (required).
	CategoryID  string   `json:"categoryId"`  // Category.ID; dangling ids render under the default category.
	Description string   `json:"description"` // Free text.
	Tags        []string `json:"tags"`        // Lower-cased, deduplicated.
	CreatedAt   int64    `json:"createdAt"`   // Milliseconds since the Unix epoch.
}

// Data returns the editable fields of the asset.
func (a Asset) Data() AssetData {
	return AssetData{
		Name:        a.Name,
		SourceURL:   a.SourceURL,
		ImageURL:    a.ImageURL,
		CategoryID:  a.CategoryID,
		Description: a.Description,
		Tags:        append([]string(nil), a.Tags...),
	}
}

// HasTag reports whether the asset carries tag.
func (a Asset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AssetData holds every Asset field except ID and CreatedAt. It is the
// payload of add and edit operations.
type AssetData struct {
	Name        string   `json:"name"`
	SourceURL   string   `json:"sourceUrl"`
	ImageURL    string   `json:"imageUrl"`
	CategoryID  string   `json:"categoryId"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Validate checks that the required fields are present. It returns a
// *ValidationError naming every missing field.
func (d AssetData) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(d.SourceURL) == "" {
		missing = append(missing, FieldSourceURL)
	}
	if strings.TrimSpace(d.ImageURL) == "" {
		missing = append(missing, FieldImageURL)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// NormalizeTags trims and lower-cases tags, dropping empty values and
// duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Required asset fields, named as they appear in stored records.
const (
	FieldName      = "name"
	FieldSourceURL = "sourceUrl"
	FieldImageURL  = "imageUrl"
)

// fieldLabels maps required fields to the labels shown to users.
var fieldLabels = map[string]string{
	FieldName:      "Name",
	FieldSourceURL: "Source",
	FieldImageURL:  "Image",
}

// ValidationError reports missing required fields on an asset save.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	labels := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		labels[i] = FieldLabel(f)
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(labels, ", "))
}

// FieldLabel returns the user-facing label for a field name.
func FieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// SortOption selects the ordering of the filtered asset view.
type SortOption string

// Sort options.
const (
	SortNewest       SortOption = "newest"
	SortOldest       SortOption = "oldest"
	SortAlphabetical SortOption = "alphabetical"
)

// SortOptions lists every sort option in display order.
var SortOptions = []SortOption{SortNewest, SortOldest, SortAlphabetical}

// ParseSortOption converts s to a SortOption. An empty string selects
// SortNewest. Returns ErrInvalidSort for unknown values.
func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return SortNewest, nil
	}
	for _, o := range SortOptions {
		if string(o) == strings.ToLower(s) {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

// Next returns the sort option after o, wrapping around.
func (o SortOption) Next() SortOption {
	for i, s := range SortOptions {
		if s == o {
			return SortOptions[(i+1)%len(SortOptions)]
		}
	}
	return SortNewest
}
