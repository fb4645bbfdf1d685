package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is the interface the rest of the application uses to talk to an
// LLM. GenerateJSON asks the model for a JSON response and strips any code
// fences before returning it.
type Client interface {
	GenerateContent(ctx context.Context, tier ModelTier, prompt string) (string, error)
	GenerateJSON(ctx context.Context, tier ModelTier, prompt string) (string, error)
	GetModel(tier ModelTier) string
	Close() error
}

// GeminiClient implements Client against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config Config
}

// NewGeminiClient creates a client using the given API key. An empty key is
// an error so callers fail fast instead of on the first request.
func NewGeminiClient(ctx context.Context, apiKey string, config Config) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent sends a prompt to the model for the given tier and
// returns the text of the first candidate.
func (g *GeminiClient) GenerateContent(ctx context.Context, tier ModelTier, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.config.GetModel(tier))
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateJSON sends a prompt expecting a JSON reply. The response MIME type
// is pinned and the temperature lowered so the output stays parseable.
func (g *GeminiClient) GenerateJSON(ctx context.Context, tier ModelTier, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.config.GetModel(tier))
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate json: %w", err)
	}
	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel reports the model name the client will use for a tier.
func (g *GeminiClient) GetModel(tier ModelTier) string {
	return g.config.GetModel(tier)
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("response candidate has no content")
	}
	var out string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("response contains no text parts")
	}
	return out, nil
}
