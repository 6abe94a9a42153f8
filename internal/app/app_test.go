package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/app"
	"github.com/quesans/backend/internal/grader"
	"github.com/quesans/backend/internal/infrastructure/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider: config.ProviderOllama,
			URL:      "http://localhost:11434/",
			Model:    "llama3:latest",
			Timeout:  time.Second,
		},
		Retry: config.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		Eval:  config.EvalConfig{Workers: 1},
		Vector: config.VectorConfig{
			Path:           "./chroma_db",
			Collection:     "answers",
			EmbeddingModel: "llama3",
		},
	}
}

func TestNewScoringClient_Ollama(t *testing.T) {
	client, closeFn, err := app.NewScoringClient(context.Background(), baseConfig())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &grader.OllamaClient{}, client)
}

func TestNewScoringClient_RateLimited(t *testing.T) {
	cfg := baseConfig()
	cfg.Eval.RateLimit = 5

	client, closeFn, err := app.NewScoringClient(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.NotEqual(t, "*grader.OllamaClient", typeName(client))
}

func TestNewScoringClient_Errors(t *testing.T) {
	cfg := baseConfig()
	cfg.LLM.Provider = "openai"
	_, _, err := app.NewScoringClient(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown llm provider")

	cfg.LLM.Provider = config.ProviderGemini
	cfg.LLM.APIKey = ""
	_, _, err = app.NewScoringClient(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewEvaluator_InvalidRetry(t *testing.T) {
	cfg := baseConfig()
	cfg.Retry.MaxAttempts = 0

	_, _, err := app.NewEvaluator(context.Background(), cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestRefStoreConfig(t *testing.T) {
	rc := app.RefStoreConfig(baseConfig())

	assert.Equal(t, "./chroma_db", rc.Path)
	assert.Equal(t, "answers", rc.Collection)
	assert.Equal(t, "http://localhost:11434/api", rc.OllamaURL)
	assert.Equal(t, "llama3", rc.Model)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
