// Package prospect fetches prospective clients from Google Gemini.
package prospect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/evcraddock/vino-route/internal/route"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrInvalidResponse is returned when the model output is not a JSON array of prospects.
var ErrInvalidResponse = errors.New("prospect source did not return a valid array")

// generateFunc sends a prompt and returns the raw response text.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Client fetches prospects from Gemini.
type Client struct {
	model    string
	generate generateFunc
}

// NewClient creates a Gemini-backed prospect client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("VR_GEMINI_API_KEY is required")
	}
	if model == "" {
		model = DefaultModel
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	c := &Client{model: model}
	c.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := gc.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(),
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// FetchProspects asks the model for liquor stores near location.
func (c *Client) FetchProspects(ctx context.Context, location string) ([]route.Candidate, error) {
	if strings.TrimSpace(location) == "" {
		return nil, route.ErrLocationRequired
	}

	text, err := c.generate(ctx, Prompt(location))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	return Parse(text)
}

// Prompt builds the generation prompt for a location.
func Prompt(location string) string {
	return fmt.Sprintf("Generate a list of 15-20 potential clients for a wine salesperson targeting liquor stores in or near %q. "+
		"These businesses should be good prospects for purchasing new wine selections. "+
		"Adhere strictly to the provided JSON schema for the response.", location)
}

// Parse decodes the model output. Anything other than a JSON array is
// rejected; entries without a name or address are dropped.
func Parse(text string) ([]route.Candidate, error) {
	text = strings.TrimSpace(text)

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if raw == nil {
		return nil, ErrInvalidResponse
	}

	candidates := make([]route.Candidate, 0, len(raw))
	for i, item := range raw {
		var c route.Candidate
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidResponse, i, err)
		}
		if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Address) == "" {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "The full name of the business.",
				},
				"address": {
					Type:        genai.TypeString,
					Description: "The complete street address of the business.",
				},
				"phone": {
					Type:        genai.TypeString,
					Description: "The primary phone number of the business, if available.",
				},
				"latitude": {
					Type:        genai.TypeNumber,
					Description: "The geographical latitude of the business location.",
				},
				"longitude": {
					Type:        genai.TypeNumber,
					Description: "The geographical longitude of the business location.",
				},
				"prospectReason": {
					Type:        genai.TypeString,
					Description: "A short reason why this business is a good prospect for a new wine supplier.",
				},
			},
			Required: []string{"name", "address", "latitude", "longitude", "prospectReason"},
		},
	}
}
