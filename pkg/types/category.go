package types

// Category is a named, coloured grouping bucket for assets.
type Category struct {
	ID    string `json:"id"`    // Stable identifier derived from the name.
	Name  string `json:"name"`  // Display label, unique case-insensitively.
	Color string `json:"color"` // Hex RGB, e.g. "#10b981".
}

// Built-in category ids.
const (
	CategoryAll          = "all"
	CategoryCars         = "cars"
	CategoryCharacters   = "characters"
	CategoryWeapons      = "weapons"
	CategoryProps        = "props"
	CategoryEnvironments = "environments"
)

// Legacy category ids. Assets filed under these move to CategoryCharacters
// when a catalogue is loaded.
const (
	LegacyHumans    = "humans"
	LegacyNonHumans = "non-humans"
)

// BuiltInCategories returns the fixed categories that always exist, in
// display order. The slice is freshly allocated on every call.
func BuiltInCategories() []Category {
	return []Category{
		{ID: CategoryAll, Name: "All Assets", Color: "#6366f1"},
		{ID: CategoryCars, Name: "Cars", Color: "#ef4444"},
		{ID: CategoryCharacters, Name: "Characters", Color: "#10b981"},
		{ID: CategoryWeapons, Name: "Weapons", Color: "#8b5cf6"},
		{ID: CategoryProps, Name: "Props", Color: "#ec4899"},
		{ID: CategoryEnvironments, Name: "Environments", Color: "#06b6d4"},
	}
}

// CategoryPalette is the colour palette new categories draw from.
var CategoryPalette = []string{
	"#ef4444", // red
	"#f59e0b", // amber
	"#10b981", // emerald
	"#06b6d4", // cyan
	"#6366f1", // indigo
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#94a3b8", // slate
}

// reservedCategoryIDs holds the built-in and legacy ids. Stored categories
// with these ids are replaced by the built-in definitions on load.
var reservedCategoryIDs = map[string]bool{
	CategoryAll:          true,
	CategoryCars:         true,
	CategoryCharacters:   true,
	CategoryWeapons:      true,
	CategoryProps:        true,
	CategoryEnvironments: true,
	LegacyHumans:         true,
	LegacyNonHumans:      true,
}

// IsReservedCategoryID reports whether id belongs to the built-in or legacy set.
func IsReservedCategoryID(id string) bool {
	return reservedCategoryIDs[id]
}

// IsLegacyCategoryID reports whether id is an obsolete category id.
func IsLegacyCategoryID(id string) bool {
	return id == LegacyHumans || id == LegacyNonHumans
}
