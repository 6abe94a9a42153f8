// Package service orchestrates grading runs: it evaluates every segmented
// record, aggregates the report and optionally persists it.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/quesans/backend/internal/domain/evaluation"
	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/metrics"
	"github.com/quesans/backend/internal/store"
	"github.com/quesans/backend/internal/worker"
)

// Evaluator grades one answer. *grader.Evaluator implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string) evaluation.Result
}

// GradingService runs the evaluation pipeline over a list of records.
type GradingService struct {
	evaluator Evaluator
	store     store.Store
	logger    *zap.Logger
	metrics   *metrics.Metrics
	workers   int

	progressMu sync.Mutex
	progress   func(index int, item report.Item)
}

// Option configures a GradingService.
type Option func(*GradingService)

// WithStore enables persistence of reports.
func WithStore(s store.Store) Option {
	return func(gs *GradingService) { gs.store = s }
}

// WithMetrics records report counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(gs *GradingService) { gs.metrics = m }
}

// WithWorkers sets how many records are evaluated at once. Values below 2
// keep evaluation sequential.
func WithWorkers(n int) Option {
	return func(gs *GradingService) { gs.workers = n }
}

// WithProgress calls fn as each record finishes grading. Calls never overlap,
// but with several workers they arrive in completion order.
func WithProgress(fn func(index int, item report.Item)) Option {
	return func(gs *GradingService) { gs.progress = fn }
}

// NewGradingService creates a GradingService.
func NewGradingService(e Evaluator, logger *zap.Logger, opts ...Option) (*GradingService, error) {
	if e == nil {
		return nil, errors.New("evaluator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	gs := &GradingService{
		evaluator: e,
		logger:    logger.Named("grading"),
		workers:   1,
	}
	for _, opt := range opts {
		opt(gs)
	}
	return gs, nil
}

// Grade evaluates records and aggregates the results. Items appear in the
// same order as records whatever the worker count.
func (gs *GradingService) Grade(ctx context.Context, records []qa.Record) report.Report {
	gs.logger.Info("grading started",
		zap.Int("records", len(records)),
		zap.Int("workers", gs.workers),
	)

	var items []report.Item
	if gs.workers > 1 && len(records) > 1 {
		items = gs.gradeConcurrently(ctx, records)
	} else {
		items = gs.gradeSequentially(ctx, records)
	}

	r := report.Aggregate(items)
	gs.metrics.ObserveReport()
	gs.logger.Info("grading finished",
		zap.Int("records", r.Count()),
		zap.Float64("total_score", r.TotalScore),
		zap.Float64("max_score", r.MaxScore),
		zap.Float64("percentage", r.DisplayPercentage()),
	)
	return r
}

func (gs *GradingService) gradeSequentially(ctx context.Context, records []qa.Record) []report.Item {
	items := make([]report.Item, len(records))
	for i, rec := range records {
		items[i] = gs.gradeOne(ctx, i, rec)
	}
	return items
}

func (gs *GradingService) gradeConcurrently(ctx context.Context, records []qa.Record) []report.Item {
	jobs := make([]worker.Job[report.Item], len(records))
	for i, rec := range records {
		i, rec := i, rec
		jobs[i] = func() report.Item { return gs.gradeOne(ctx, i, rec) }
	}
	return worker.Run(gs.workers, jobs)
}

func (gs *GradingService) gradeOne(ctx context.Context, index int, rec qa.Record) report.Item {
	gs.logger.Debug("evaluating record", zap.Int("index", index))
	item := report.Item{
		Record: rec,
		Result: gs.evaluator.Evaluate(ctx, rec.Question, rec.Answer),
	}

	if gs.progress != nil {
		gs.progressMu.Lock()
		gs.progress(index, item)
		gs.progressMu.Unlock()
	}
	return item
}

// GradeAndSave grades records and persists the report under source. Without
// a store the returned ID is empty.
func (gs *GradingService) GradeAndSave(ctx context.Context, source string, records []qa.Record) (string, report.Report, error) {
	r := gs.Grade(ctx, records)
	if gs.store == nil {
		return "", r, nil
	}

	reportID, err := gs.store.SaveReport(ctx, source, r)
	if err != nil {
		gs.logger.Error("failed to save report", zap.String("source", source), zap.Error(err))
		return "", r, fmt.Errorf("saving report: %w", err)
	}
	gs.logger.Info("report saved", zap.String("report_id", reportID), zap.String("source", source))
	return reportID, r, nil
}
