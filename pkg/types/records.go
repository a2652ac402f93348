package types

// Record keys in the key-value store. The names match the keys used by the
// browser edition of the catalogue, so its saved data loads as-is.
const (
	RecordAssets     = "forge_assets"
	RecordCategories = "forge_categories"
	RecordAPIKey     = "asthye_gemini_key"
	RecordTheme      = "asthye_bg"
)
