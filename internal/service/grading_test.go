package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quesans/backend/internal/domain/evaluation"
	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/service"
	"github.com/quesans/backend/internal/store"
)

// fakeEvaluator scores an answer by its length, capped at 5.
type fakeEvaluator struct {
	mu    sync.Mutex
	seen  []string
	delay func(answer string) time.Duration
}

func (f *fakeEvaluator) Evaluate(_ context.Context, question, answer string) evaluation.Result {
	if f.delay != nil {
		time.Sleep(f.delay(answer))
	}
	f.mu.Lock()
	f.seen = append(f.seen, question)
	f.mu.Unlock()

	score := float64(len(answer))
	if score > evaluation.MaxScore {
		score = evaluation.MaxScore
	}
	return evaluation.FromText(score, evaluation.FormatScore(score)+"\nFeedback: ok")
}

type failingStore struct{ store.Store }

func (failingStore) SaveReport(context.Context, string, report.Report) (string, error) {
	return "", errors.New("disk full")
}

func records() []qa.Record {
	return []qa.Record{
		qa.New("1. Q1", "abc"),
		qa.New("2. Q2", "abcdefg"),
		qa.New("3. Q3", ""),
	}
}

func TestGrade_Sequential(t *testing.T) {
	eval := &fakeEvaluator{}
	gs, err := service.NewGradingService(eval, nil)
	require.NoError(t, err)

	r := gs.Grade(context.Background(), records())

	assert.Equal(t, []string{"1. Q1", "2. Q2", "3. Q3"}, eval.seen)
	require.Len(t, r.Items, 3)
	assert.Equal(t, 8.0, r.TotalScore)
	assert.Equal(t, 15.0, r.MaxScore)
	assert.Equal(t, 53.33, r.DisplayPercentage())
}

func TestGrade_ConcurrentKeepsOrder(t *testing.T) {
	eval := &fakeEvaluator{
		delay: func(answer string) time.Duration {
			return time.Duration(10-len(answer)) * time.Millisecond
		},
	}
	gs, err := service.NewGradingService(eval, nil, service.WithWorkers(3))
	require.NoError(t, err)

	r := gs.Grade(context.Background(), records())

	require.Len(t, r.Items, 3)
	for i, rec := range records() {
		assert.Equal(t, rec, r.Items[i].Record)
	}
	assert.Equal(t, 3.0, r.Items[0].Result.Score)
	assert.Equal(t, 5.0, r.Items[1].Result.Score)
	assert.Equal(t, 0.0, r.Items[2].Result.Score)
}

func TestGrade_Empty(t *testing.T) {
	gs, err := service.NewGradingService(&fakeEvaluator{}, nil)
	require.NoError(t, err)

	r := gs.Grade(context.Background(), nil)
	assert.Zero(t, r.Count())
	assert.Zero(t, r.Percentage)
}

func TestGradeAndSave(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "grading.db"))
	require.NoError(t, err)
	defer st.Close()

	gs, err := service.NewGradingService(&fakeEvaluator{}, nil, service.WithStore(st))
	require.NoError(t, err)

	reportID, r, err := gs.GradeAndSave(context.Background(), "answers.txt", records())
	require.NoError(t, err)
	require.NotEmpty(t, reportID)

	stored, err := st.GetReport(context.Background(), reportID)
	require.NoError(t, err)
	assert.Equal(t, r.TotalScore, stored.Report.TotalScore)
	assert.Equal(t, "answers.txt", stored.Source)
	assert.True(t, strings.HasPrefix(stored.Report.Items[0].Result.Evaluation, "Score: 3/5"))
}

func TestGradeAndSave_NoStore(t *testing.T) {
	gs, err := service.NewGradingService(&fakeEvaluator{}, nil)
	require.NoError(t, err)

	reportID, r, err := gs.GradeAndSave(context.Background(), "x", records())
	require.NoError(t, err)
	assert.Empty(t, reportID)
	assert.Equal(t, 3, r.Count())
}

func TestGradeAndSave_StoreError(t *testing.T) {
	gs, err := service.NewGradingService(&fakeEvaluator{}, nil, service.WithStore(failingStore{}))
	require.NoError(t, err)

	_, r, err := gs.GradeAndSave(context.Background(), "x", records())
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 3, r.Count())
}

func TestNewGradingService_RequiresEvaluator(t *testing.T) {
	_, err := service.NewGradingService(nil, nil)
	assert.Error(t, err)
}

func TestGrade_ReportsProgressPerRecord(t *testing.T) {
	for _, workers := range []int{1, 3} {
		var (
			mu   sync.Mutex
			seen = map[int]string{}
		)
		gs, err := service.NewGradingService(&fakeEvaluator{}, nil,
			service.WithWorkers(workers),
			service.WithProgress(func(index int, item report.Item) {
				mu.Lock()
				defer mu.Unlock()
				seen[index] = item.Record.Question
			}),
		)
		require.NoError(t, err)

		gs.Grade(context.Background(), records())

		assert.Equal(t, map[int]string{0: "1. Q1", 1: "2. Q2", 2: "3. Q3"}, seen, "workers=%d", workers)
	}
}

func TestGrade_ProgressBeforeRunEnds(t *testing.T) {
	var order []string
	gs, err := service.NewGradingService(&fakeEvaluator{}, nil,
		service.WithProgress(func(index int, _ report.Item) {
			order = append(order, records()[index].Question)
		}),
	)
	require.NoError(t, err)

	gs.Grade(context.Background(), records())
	order = append(order, "done")

	assert.Equal(t, []string{"1. Q1", "2. Q2", "3. Q3", "done"}, order)
}
