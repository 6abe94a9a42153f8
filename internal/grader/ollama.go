package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaClient calls the Ollama generate API (POST /api/generate, non-streaming).
type OllamaClient struct {
	url    string       // e.g. "http://localhost:11434"
	model  string       // e.g. "llama3:latest"
	client *http.Client // reused across calls
}

// Compile-time check: *OllamaClient satisfies the ScoringClient interface.
var _ ScoringClient = (*OllamaClient)(nil)

// NewOllamaClient creates a client for the given endpoint. timeout bounds each call.
func NewOllamaClient(url, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		url:   strings.TrimRight(url, "/"),
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// Generate sends one prompt and returns the model's text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ScoringError{Class: FailureConnection, Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ScoringError{
			Class:   FailureConnection,
			Wrapped: fmt.Errorf("ollama returned status %d", resp.StatusCode),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ScoringError{Class: FailureMalformed, Wrapped: fmt.Errorf("failed to decode response: %w", err)}
	}
	if out.Response == nil {
		return "", &ScoringError{Class: FailureMissingField, Wrapped: fmt.Errorf(`response has no "response" field`)}
	}

	return *out.Response, nil
}
