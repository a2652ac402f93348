package suggest

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mesh-intelligence/forge/internal/logging"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// Gemini is a Suggester backed by the Google Gemini API.
type Gemini struct {
	apiKey string
	model  string
}

var _ Suggester = (*Gemini)(nil)

// NewGemini returns a Gemini suggester. An empty model selects DefaultModel.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model}
}

// responseSchema constrains the model to the Suggestion shape.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":    {Type: genai.TypeString, Description: "A catchy title for the asset"},
		"category": {Type: genai.TypeString, Description: "The most relevant category name"},
		"tags": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "3-5 relevant thematic tags",
		},
		"reasoning": {Type: genai.TypeString, Description: "Why this category and tags were chosen"},
	},
	Required: []string{"title", "category", "tags"},
}

// Suggest implements Suggester. It fails with types.ErrMissingAPIKey before
// any network call when no key is configured.
func (g *Gemini) Suggest(ctx context.Context, text string, categories []string) (Suggestion, error) {
	if err := checkRequest(g.apiKey, text); err != nil {
		return Suggestion{}, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("create gemini client: %w", err)
	}

	logging.Debugf("suggest: requesting metadata from %s", g.model)
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(text, categories)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("generate suggestion: %w", err)
	}
	return ParseSuggestion(resp.Text())
}
