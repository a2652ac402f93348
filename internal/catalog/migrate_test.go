package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/forge/pkg/types"
)

func TestMigrateAssets(t *testing.T) {
	in := []types.Asset{
		{ID: "a", CategoryID: types.LegacyHumans},
		{ID: "b", CategoryID: types.LegacyNonHumans, Tags: []string{"orc"}},
		{ID: "c", CategoryID: types.CategoryCars},
		{ID: "d", CategoryID: "vehicles"},
	}

	got := MigrateAssets(in)

	ids := make([]string, len(got))
	cats := make([]string, len(got))
	for i, a := range got {
		ids[i], cats[i] = a.ID, a.CategoryID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids, "order preserved")
	assert.Equal(t, []string{"characters", "characters", "cars", "vehicles"}, cats)
	assert.Equal(t, []string{}, got[0].Tags, "nil tags become empty")
	assert.Equal(t, []string{"orc"}, got[1].Tags)

	assert.Equal(t, types.LegacyHumans, in[0].CategoryID, "input untouched")
	assert.Nil(t, in[0].Tags)
}

func TestMigrateAssetsIdempotent(t *testing.T) {
	in := []types.Asset{
		{ID: "a", CategoryID: types.LegacyHumans, Tags: []string{"x"}},
		{ID: "b", CategoryID: types.CategoryProps},
	}
	once := MigrateAssets(in)
	assert.Equal(t, once, MigrateAssets(once))
}

func TestMigrateCategories(t *testing.T) {
	tests := []struct {
		name   string
		stored []types.Category
		want   []string
	}{
		{
			name: "nothing stored",
			want: []string{"all", "cars", "characters", "weapons", "props", "environments"},
		},
		{
			name: "legacy and stale built-ins dropped",
			stored: []types.Category{
				{ID: "all", Name: "All", Color: "#000000"},
				{ID: "humans", Name: "Humans", Color: "#111111"},
				{ID: "non-humans", Name: "Non Humans", Color: "#222222"},
				{ID: "vehicles", Name: "Vehicles", Color: "#f59e0b"},
			},
			want: []string{"all", "cars", "characters", "weapons", "props", "environments", "vehicles"},
		},
		{
			name: "user order kept, duplicates keep first",
			stored: []types.Category{
				{ID: "zeta", Name: "Zeta"},
				{ID: "alpha", Name: "Alpha"},
				{ID: "zeta", Name: "Zeta Again"},
			},
			want: []string{"all", "cars", "characters", "weapons", "props", "environments", "zeta", "alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MigrateCategories(tt.stored)
			ids := make([]string, len(got))
			for i, c := range got {
				ids[i] = c.ID
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, types.BuiltInCategories(), got[:6], "built-ins use canonical definitions")
		})
	}
}

func TestMigrateCategoriesKeepsFirstDuplicate(t *testing.T) {
	got := MigrateCategories([]types.Category{
		{ID: "zeta", Name: "Zeta", Color: "#f59e0b"},
		{ID: "zeta", Name: "Other", Color: "#94a3b8"},
	})
	assert.Equal(t, types.Category{ID: "zeta", Name: "Zeta", Color: "#f59e0b"}, got[len(got)-1])
}

func TestMigrateCategoriesIdempotent(t *testing.T) {
	stored := []types.Category{
		{ID: "humans", Name: "Humans"},
		{ID: "vehicles", Name: "Vehicles", Color: "#f59e0b"},
	}
	once := MigrateCategories(stored)
	assert.Equal(t, once, MigrateCategories(once))
}

func TestDecodeRecords(t *testing.T) {
	assert.Nil(t, decodeAssets("", false))
	assert.Nil(t, decodeAssets("", true))
	assert.Nil(t, decodeAssets("{not json", true))
	assert.Len(t, decodeAssets(`[{"id":"a"}]`, true), 1)

	assert.Nil(t, decodeCategories("[1,2", true))
	assert.Len(t, decodeCategories(`[{"id":"x","name":"X","color":"#fff"}]`, true), 1)
}
