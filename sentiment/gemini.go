package sentiment

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const classifyPrompt = `Classify the overall sentiment of the following forum post.
Respond with exactly one word: positive, negative or neutral.

Post:
%s`

// GeminiClassifier implements Classifier using Google GenAI Gemini.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// GeminiConfig holds configuration for the Gemini classifier.
type GeminiConfig struct {
	APIKey string // If empty, uses GOOGLE_API_KEY env var
	Model  string // If empty, uses GOOGLE_MODEL env var, then a default
}

// NewGeminiClassifier creates a new Gemini backed classifier.
func NewGeminiClassifier(ctx context.Context, cfg GeminiConfig) (*GeminiClassifier, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv("GOOGLE_MODEL")
	}
	if model == "" {
		model = "gemini-3-pro"
	}

	return &GeminiClassifier{
		client: client,
		model:  model,
	}, nil
}

// Classify asks Gemini for a one-word label. The returned label is lower
// cased but not validated; unrecognized labels map to neutral downstream.
func (g *GeminiClassifier) Classify(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(classifyPrompt, text)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "gemini classify failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from gemini")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result += part.Text
		}
	}

	return strings.ToLower(strings.TrimSpace(result)), nil
}
