// Package suggest asks a generative model for asset metadata: a title, a
// category and a few thematic tags derived from a free-text description.
//
// The service is an external collaborator. A call is attempted once; there
// is no retry and no timeout beyond the caller's context.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/forge/pkg/types"
)

// Suggestion is the metadata proposed for an asset.
type Suggestion struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// Suggester proposes metadata for the asset described by text. categories
// lists the existing category names the model should prefer.
type Suggester interface {
	Suggest(ctx context.Context, text string, categories []string) (Suggestion, error)
}

// SuggesterFunc adapts a function to Suggester.
type SuggesterFunc func(ctx context.Context, text string, categories []string) (Suggestion, error)

// Suggest implements Suggester.
func (f SuggesterFunc) Suggest(ctx context.Context, text string, categories []string) (Suggestion, error) {
	return f(ctx, text, categories)
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(text string, categories []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Given this user description of a 3D model/mod: %q,\n", text)
	fmt.Fprintf(&b, "suggest a concise title, pick the best category from this list: [%s],\n", strings.Join(categories, ", "))
	b.WriteString("and suggest 3-5 relevant thematic tags (e.g., Sci-fi, Fantasy, Modern, Military, Realistic, Cyberpunk, Stylized).\n")
	b.WriteString("If no category matches perfectly, suggest a new single-word category name.")
	return b.String()
}

// ParseSuggestion decodes the model's JSON answer. An answer carrying
// neither a title nor a category is an error; tags may be empty.
func ParseSuggestion(raw string) (Suggestion, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Suggestion{}, fmt.Errorf("parse suggestion: empty response")
	}
	var s Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Suggestion{}, fmt.Errorf("parse suggestion: %w", err)
	}
	if strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Category) == "" {
		return Suggestion{}, fmt.Errorf("parse suggestion: response has neither title nor category")
	}
	return s, nil
}

// checkRequest rejects calls that must not reach the service.
func checkRequest(apiKey, text string) error {
	if strings.TrimSpace(apiKey) == "" {
		return types.ErrMissingAPIKey
	}
	if strings.TrimSpace(text) == "" {
		return types.ErrEmptyPrompt
	}
	return nil
}
