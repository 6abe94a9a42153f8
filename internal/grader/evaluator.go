package grader

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/quesans/backend/internal/domain/evaluation"
	"github.com/quesans/backend/internal/metrics"
)

// Evaluator grades one answer at a time through a ScoringClient.
// It keeps no state between calls and is safe for concurrent use when the
// client is.
type Evaluator struct {
	client  ScoringClient
	policy  RetryPolicy
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEvaluator creates an Evaluator. m may be nil.
func NewEvaluator(client ScoringClient, policy RetryPolicy, logger *zap.Logger, m *metrics.Metrics) (*Evaluator, error) {
	if client == nil {
		return nil, errors.New("scoring client is required")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		client:  client,
		policy:  policy,
		logger:  logger.Named("evaluator"),
		metrics: m,
	}, nil
}

// Evaluate grades answer against question. It never fails: when the model
// cannot be reached or answers in the wrong shape after every retry, the
// result has score 0 and feedback naming the failure.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string) evaluation.Result {
	start := time.Now()
	prompt := BuildPrompt(question, answer)

	var text string
	err := e.policy.Do(ctx, e.logger, func(ctx context.Context, logger *zap.Logger) error {
		out, err := e.client.Generate(ctx, prompt)
		if err != nil {
			e.metrics.ObserveAttempt(string(ClassOf(err)))
			return err
		}
		e.metrics.ObserveAttempt("ok")
		logger.Debug("received evaluation", zap.Int("length", len(out)))
		text = out
		return nil
	})
	if err != nil {
		class := ClassOf(err)
		e.logger.Error("evaluation failed after retries",
			zap.String("failure", string(class)),
			zap.Error(err),
		)
		e.metrics.ObserveEvaluation(string(class), time.Since(start))
		return evaluation.Failed(class.Message())
	}

	score := ExtractScore(e.logger, text)
	e.metrics.ObserveEvaluation("ok", time.Since(start))
	return evaluation.FromText(score, text)
}

// ExtractScore returns the score in an evaluation, or 0 when there is no
// valid "Score: X/5" line. Anomalies are logged and never fatal.
func ExtractScore(logger *zap.Logger, text string) float64 {
	score, err := evaluation.ParseScore(text)
	if err != nil {
		if logger != nil {
			logger.Warn("could not extract score from evaluation", zap.Error(err))
		}
		return 0
	}
	return score
}
