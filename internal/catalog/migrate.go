package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/forge/internal/logging"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// MigrateAssets returns a copy of assets with legacy category ids rewritten
// to the characters category. Nil tag lists become empty lists. The input is
// not modified.
func MigrateAssets(assets []types.Asset) []types.Asset {
	out := make([]types.Asset, len(assets))
	for i, a := range assets {
		if types.IsLegacyCategoryID(a.CategoryID) {
			a.CategoryID = types.CategoryCharacters
		}
		if a.Tags == nil {
			a.Tags = []string{}
		} else {
			a.Tags = append([]string{}, a.Tags...)
		}
		out[i] = a
	}
	return out
}

// MigrateCategories returns the built-in categories followed by every stored
// category whose id is neither built-in nor legacy, in stored order. A
// repeated user id keeps its first occurrence.
func MigrateCategories(stored []types.Category) []types.Category {
	out := types.BuiltInCategories()
	seen := make(map[string]bool, len(stored))
	for _, c := range stored {
		if types.IsReservedCategoryID(c.ID) || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// decodeAssets parses the stored asset record. A malformed record is logged
// and treated as absent.
func decodeAssets(raw string, ok bool) []types.Asset {
	if !ok {
		return nil
	}
	var assets []types.Asset
	if err := decodeRecord(raw, &assets); err != nil {
		logging.Warnf("catalog: discarding malformed %s record: %v", types.RecordAssets, err)
		return nil
	}
	return assets
}

// decodeCategories parses the stored category record. A malformed record is
// logged and treated as absent.
func decodeCategories(raw string, ok bool) []types.Category {
	if !ok {
		return nil
	}
	var cats []types.Category
	if err := decodeRecord(raw, &cats); err != nil {
		logging.Warnf("catalog: discarding malformed %s record: %v", types.RecordCategories, err)
		return nil
	}
	return cats
}

// decodeRecord unmarshals raw into v. An empty record decodes to nothing.
func decodeRecord(raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
