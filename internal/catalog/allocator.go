package catalog

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/forge/pkg/types"
)

// fallbackColor is used when the palette is empty.
const fallbackColor = "#94a3b8"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Allocator assigns ids and colours to new categories.
type Allocator struct {
	palette []string
	rng     *rand.Rand
}

// NewAllocator returns an Allocator drawing colours from palette. A nil rng
// selects an unseeded source.
func NewAllocator(palette []string, rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Allocator{palette: append([]string(nil), palette...), rng: rng}
}

// CategoryID derives a category id from a display name: trimmed,
// lower-cased, whitespace runs collapsed to a single hyphen.
func CategoryID(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// FindByName returns the category whose name matches name case-insensitively.
func FindByName(categories []types.Category, name string) (types.Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return types.Category{}, false
}

// Allocate resolves name against existing. A case-insensitive name match, or
// an existing category with the derived id, is returned with created false.
// Names deriving to a legacy id resolve to the characters category, where
// loading would move their assets anyway.
// Otherwise a new category is built with a fresh colour and created is true;
// the caller appends it.
func (a *Allocator) Allocate(existing []types.Category, name string) (types.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Category{}, false, types.ErrInvalidName
	}
	if c, ok := FindByName(existing, name); ok {
		return c, false, nil
	}

	id := CategoryID(name)
	if types.IsLegacyCategoryID(id) {
		id = types.CategoryCharacters
	}
	for _, c := range existing {
		if c.ID == id {
			return c, false, nil
		}
	}

	return types.Category{ID: id, Name: name, Color: a.pickColor(existing)}, true, nil
}

// pickColor prefers a palette colour no category uses yet. When every colour
// is taken it picks any colour except the most recently added category's.
func (a *Allocator) pickColor(existing []types.Category) string {
	if len(a.palette) == 0 {
		return fallbackColor
	}

	used := make(map[string]bool, len(existing))
	for _, c := range existing {
		used[strings.ToLower(c.Color)] = true
	}
	var unused []string
	for _, p := range a.palette {
		if !used[strings.ToLower(p)] {
			unused = append(unused, p)
		}
	}
	if len(unused) > 0 {
		return unused[a.rng.IntN(len(unused))]
	}

	var last string
	if len(existing) > 0 {
		last = strings.ToLower(existing[len(existing)-1].Color)
	}
	var recyclable []string
	for _, p := range a.palette {
		if strings.ToLower(p) != last {
			recyclable = append(recyclable, p)
		}
	}
	if len(recyclable) == 0 {
		return a.palette[0]
	}
	return recyclable[a.rng.IntN(len(recyclable))]
}
