package catalog

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/forge/pkg/types"
)

// Filter is the active view state: category, required tags, search text
// and sort order.
type Filter struct {
	Category string           // Category id; "" and "all" match every asset.
	Tags     []string         // Every tag must be present on the asset.
	Search   string           // Case-insensitive substring of name or description.
	Sort     types.SortOption // "" sorts newest first.
}

// AvailableTags returns the union of every asset's tags, deduplicated and
// sorted ascending.
func AvailableTags(assets []types.Asset) []string {
	set := make(map[string]struct{})
	for _, a := range assets {
		for _, t := range a.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// FilteredAndSorted returns the assets that pass every predicate in f,
// ordered by f.Sort. Ties keep their input order. assets is not modified.
func FilteredAndSorted(assets []types.Asset, f Filter) []types.Asset {
	search := strings.ToLower(f.Search)
	out := make([]types.Asset, 0, len(assets))
	for _, a := range assets {
		if matchesCategory(a, f.Category) && matchesSearch(a, search) && matchesTags(a, f.Tags) {
			out = append(out, a)
		}
	}

	switch f.Sort {
	case types.SortOldest:
		slices.SortStableFunc(out, func(a, b types.Asset) int {
			return cmp.Compare(a.CreatedAt, b.CreatedAt)
		})
	case types.SortAlphabetical:
		col := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b types.Asset) int {
			return col.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(out, func(a, b types.Asset) int {
			return cmp.Compare(b.CreatedAt, a.CreatedAt)
		})
	}
	return out
}

func matchesCategory(a types.Asset, category string) bool {
	return category == "" || category == types.CategoryAll || a.CategoryID == category
}

// matchesSearch expects search to be lower-cased already.
func matchesSearch(a types.Asset, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), search) ||
		strings.Contains(strings.ToLower(a.Description), search)
}

func matchesTags(a types.Asset, tags []string) bool {
	for _, t := range tags {
		if !a.HasTag(t) {
			return false
		}
	}
	return true
}

// ToggleTag returns selected with tag removed if present, or appended if not.
// selected is not modified.
func ToggleTag(selected []string, tag string) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, t := range selected {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}
