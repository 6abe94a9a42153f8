package grader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient scores answers with a Google Gemini model.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ ScoringClient = (*GeminiClient)(nil)

// NewGeminiClient opens a Gemini client. Call Close when done.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(apiKey)))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	m := cl.GenerativeModel(strings.TrimSpace(model))
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}

	return &GeminiClient{client: cl, model: m}, nil
}

// Generate sends one prompt and returns the first text part of the answer.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ScoringError{Class: FailureConnection, Wrapped: err}
	}

	txt, ok := firstText(resp)
	if !ok {
		return "", &ScoringError{Class: FailureMissingField, Wrapped: errors.New("gemini returned no text candidate")}
	}
	return txt, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t), true
			}
		}
	}
	return "", false
}

func ptrFloat32(v float32) *float32 { return &v }
