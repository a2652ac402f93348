package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/forge/pkg/types"
)

func names(assets []types.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Name
	}
	return out
}

func sampleAssets() []types.Asset {
	return []types.Asset{
		{ID: "1", Name: "Banana Car", CategoryID: "cars", Description: "yellow racer", Tags: []string{"modern", "stylized"}, CreatedAt: 100},
		{ID: "2", Name: "apple knight", CategoryID: "characters", Description: "Fantasy hero", Tags: []string{"fantasy"}, CreatedAt: 300},
		{ID: "3", Name: "Cyber Blade", CategoryID: "weapons", Description: "neon sword", Tags: []string{"cyberpunk", "stylized"}, CreatedAt: 200},
	}
}

func TestFilteredAndSortedSort(t *testing.T) {
	assets := sampleAssets()

	tests := []struct {
		sort types.SortOption
		want []string
	}{
		{types.SortNewest, []string{"apple knight", "Cyber Blade", "Banana Car"}},
		{"", []string{"apple knight", "Cyber Blade", "Banana Car"}},
		{types.SortOldest, []string{"Banana Car", "Cyber Blade", "apple knight"}},
		{types.SortAlphabetical, []string{"apple knight", "Banana Car", "Cyber Blade"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilteredAndSorted(assets, Filter{Sort: tt.sort})))
		})
	}
}

func TestFilteredAndSortedAlphabeticalIsCaseInsensitive(t *testing.T) {
	assets := []types.Asset{{Name: "Banana"}, {Name: "apple"}}
	assert.Equal(t, []string{"apple", "Banana"}, names(FilteredAndSorted(assets, Filter{Sort: types.SortAlphabetical})))
}

func TestFilteredAndSortedStable(t *testing.T) {
	assets := []types.Asset{
		{ID: "a", Name: "Same", CreatedAt: 5},
		{ID: "b", Name: "Same", CreatedAt: 5},
		{ID: "c", Name: "Same", CreatedAt: 5},
	}
	for _, s := range types.SortOptions {
		got := FilteredAndSorted(assets, Filter{Sort: s})
		assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID}, string(s))
	}
}

func TestFilteredAndSortedFilters(t *testing.T) {
	assets := sampleAssets()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter passes everything", Filter{}, []string{"apple knight", "Cyber Blade", "Banana Car"}},
		{"all category", Filter{Category: types.CategoryAll}, []string{"apple knight", "Cyber Blade", "Banana Car"}},
		{"single category", Filter{Category: types.CategoryWeapons}, []string{"Cyber Blade"}},
		{"unknown category", Filter{Category: "vehicles"}, []string{}},
		{"search name case-insensitive", Filter{Search: "CYBER"}, []string{"Cyber Blade"}},
		{"search description", Filter{Search: "hero"}, []string{"apple knight"}},
		{"tag", Filter{Tags: []string{"stylized"}}, []string{"Cyber Blade", "Banana Car"}},
		{"tags are AND", Filter{Tags: []string{"stylized", "modern"}}, []string{"Banana Car"}},
		{"tags with no match", Filter{Tags: []string{"stylized", "fantasy"}}, []string{}},
		{"combined", Filter{Category: types.CategoryCars, Tags: []string{"modern"}, Search: "racer"}, []string{"Banana Car"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilteredAndSorted(assets, tt.filter)))
		})
	}
}

func TestFilteredAndSortedDoesNotModifyInput(t *testing.T) {
	assets := sampleAssets()
	before := names(assets)
	FilteredAndSorted(assets, Filter{Sort: types.SortAlphabetical})
	assert.Equal(t, before, names(assets))
}

func TestAvailableTags(t *testing.T) {
	assert.Equal(t, []string{"cyberpunk", "fantasy", "modern", "stylized"}, AvailableTags(sampleAssets()))
	assert.Empty(t, AvailableTags(nil))
}

func TestToggleTag(t *testing.T) {
	sel := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, ToggleTag(sel, "c"))
	assert.Equal(t, []string{"b"}, ToggleTag(sel, "a"))
	assert.Equal(t, []string{"a", "b"}, sel, "input untouched")
	assert.Equal(t, []string{"x"}, ToggleTag(nil, "x"))
}
