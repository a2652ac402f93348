// Package theme handles the background preference: a flat colour or a
// radial gradient stored verbatim under the background record.
package theme

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Preset is a curated background.
type Preset struct {
	Name  string // Display name.
	Value string // Stored background value.
	Color string // Representative colour for the picker.
}

// Presets lists the curated backgrounds; the first is the default.
var Presets = []Preset{
	{Name: "Platinum (Default)", Value: "radial-gradient(circle at 50% 0%, #ffffff 0%, #e2e8f0 50%, #cbd5e1 100%)", Color: "#e2e8f0"},
	{Name: "Dark Slate", Value: "#0f172a", Color: "#0f172a"},
	{Name: "Midnight Void", Value: "radial-gradient(circle at 50% 0%, #1e1b4b 0%, #020617 100%)", Color: "#1e1b4b"},
	{Name: "Warm Paper", Value: "#fdfbf7", Color: "#fdfbf7"},
	{Name: "Soft Gray", Value: "#f3f4f6", Color: "#f3f4f6"},
}

// Default returns the default background preset.
func Default() Preset {
	return Presets[0]
}

var (
	hexToken = regexp.MustCompile(`#[0-9a-fA-F]+`)
	hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// darkTokens are the colours that switch the interface to light-on-dark.
var darkTokens = map[string]bool{
	"#0f172a": true,
	"#1e1b4b": true,
	"#020617": true,
}

// IsGradient reports whether v is a gradient background.
func IsGradient(v string) bool {
	return strings.Contains(v, "gradient")
}

// IsDark reports whether v contains a hex colour token equal to one of the
// dark tokens. Longer tokens that merely start with a dark colour do not count.
func IsDark(v string) bool {
	for _, tok := range hexToken.FindAllString(v, -1) {
		if darkTokens[strings.ToLower(tok)] {
			return true
		}
	}
	return false
}

// IsHexColor reports whether v is a #rrggbb colour.
func IsHexColor(v string) bool {
	return hexColor.MatchString(v)
}

// Highlight mixes hex 60% towards white. Anything other than a #rrggbb
// colour yields "#ffffff".
func Highlight(hex string) string {
	if !IsHexColor(hex) {
		return "#ffffff"
	}
	var out [3]int
	for i := range out {
		n, _ := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		out[i] = int(math.Round(float64(n) + float64(255-n)*0.6))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

// Build returns the background value for color: the colour itself, or a
// radial gradient lit from the top by its highlight.
func Build(color string, gradient bool) string {
	if !gradient {
		return color
	}
	return fmt.Sprintf("radial-gradient(circle at 50%% 0%%, %s 0%%, %s 100%%)", Highlight(color), color)
}

// PresetByName finds a preset by case-insensitive name or name prefix, so
// "platinum" selects "Platinum (Default)".
func PresetByName(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Preset{}, false
	}
	for _, p := range Presets {
		if strings.ToLower(p.Name) == name {
			return p, true
		}
	}
	for _, p := range Presets {
		if strings.HasPrefix(strings.ToLower(p.Name), name) {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetByValue returns the preset whose stored value is v.
func PresetByValue(v string) (Preset, bool) {
	for _, p := range Presets {
		if p.Value == v {
			return p, true
		}
	}
	return Preset{}, false
}

// PickerColor returns the colour that represents v: the preset colour when v
// is a preset, v itself when it is a flat colour, and the base colour (last
// hex token) of a custom gradient. Anything else yields fallback.
func PickerColor(v, fallback string) string {
	if p, ok := PresetByValue(v); ok {
		return p.Color
	}
	if !IsGradient(v) {
		if v != "" {
			return v
		}
		return fallback
	}
	toks := hexToken.FindAllString(v, -1)
	if len(toks) > 0 && IsHexColor(toks[len(toks)-1]) {
		return strings.ToLower(toks[len(toks)-1])
	}
	return fallback
}

// Resolve returns the effective background for a stored value, falling back
// to the default preset when nothing is stored.
func Resolve(stored string, ok bool) string {
	if !ok || stored == "" {
		return Default().Value
	}
	return stored
}
