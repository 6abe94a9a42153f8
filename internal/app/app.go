// Package app wires configuration into the components shared by the server
// and the command line tool.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quesans/backend/internal/grader"
	"github.com/quesans/backend/internal/infrastructure/config"
	"github.com/quesans/backend/internal/metrics"
	"github.com/quesans/backend/internal/refstore"
)

// NewScoringClient builds the configured scoring backend, rate limited when
// eval.rate_limit is set. The returned func releases the backend.
func NewScoringClient(ctx context.Context, cfg *config.Config) (grader.ScoringClient, func() error, error) {
	noop := func() error { return nil }

	var client grader.ScoringClient
	closeFn := noop

	switch cfg.LLM.Provider {
	case config.ProviderOllama:
		client = grader.NewOllamaClient(cfg.LLM.URL, cfg.LLM.Model, cfg.LLM.Timeout)
	case config.ProviderGemini:
		gc, err := grader.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			return nil, noop, err
		}
		client = gc
		closeFn = gc.Close
	default:
		return nil, noop, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	return grader.RateLimited(client, grader.NewLimiter(cfg.Eval.RateLimit)), closeFn, nil
}

// NewEvaluator builds an Evaluator over the configured scoring backend.
func NewEvaluator(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*grader.Evaluator, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, closeFn, err := NewScoringClient(ctx, cfg)
	if err != nil {
		return nil, closeFn, err
	}

	policy := grader.RetryPolicy{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		Backoff:        grader.FixedBackoff(cfg.Retry.Delay),
		AttemptTimeout: cfg.LLM.Timeout,
	}
	eval, err := grader.NewEvaluator(client, policy, logger, m)
	if err != nil {
		closeFn()
		return nil, func() error { return nil }, err
	}

	logger.Info("scoring backend ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Int("max_attempts", policy.MaxAttempts),
		zap.Duration("retry_delay", cfg.Retry.Delay),
		zap.Duration("attempt_timeout", policy.AttemptTimeout),
		zap.Float64("rate_limit", cfg.Eval.RateLimit),
	)
	return eval, closeFn, nil
}

// RefStoreConfig maps vector settings onto the reference store. Embeddings
// are served by the same Ollama instance as scoring.
func RefStoreConfig(cfg *config.Config) refstore.Config {
	return refstore.Config{
		Path:       cfg.Vector.Path,
		Collection: cfg.Vector.Collection,
		OllamaURL:  strings.TrimRight(cfg.LLM.URL, "/") + "/api",
		Model:      cfg.Vector.EmbeddingModel,
	}
}
