package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quesans/backend/internal/domain/evaluation"
	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
)

func item(score float64) report.Item {
	return report.Item{
		Record: qa.New("1. Q?", "A."),
		Result: evaluation.Result{Score: score},
	}
}

func TestAggregate_Empty(t *testing.T) {
	r := report.Aggregate(nil)

	assert.Zero(t, r.TotalScore)
	assert.Zero(t, r.MaxScore)
	assert.Zero(t, r.Percentage)
	assert.Zero(t, r.DisplayPercentage())
}

func TestAggregate_Totals(t *testing.T) {
	r := report.Aggregate([]report.Item{item(4), item(2.5), item(0)})

	assert.Equal(t, 6.5, r.TotalScore)
	assert.Equal(t, 15.0, r.MaxScore)
	assert.InDelta(t, 43.3333333, r.Percentage, 1e-6)
	assert.Equal(t, 43.33, r.DisplayPercentage())
	assert.Equal(t, 3, r.Count())
}

func TestAggregate_KeepsOrder(t *testing.T) {
	items := []report.Item{
		{Record: qa.New("1. A?", "a"), Result: evaluation.Result{Score: 1}},
		{Record: qa.New("2. B?", "b"), Result: evaluation.Result{Score: 2}},
	}

	r := report.Aggregate(items)

	assert.Equal(t, "1. A?", r.Items[0].Record.Question)
	assert.Equal(t, "2. B?", r.Items[1].Record.Question)
}

func TestDisplayPercentage_Rounding(t *testing.T) {
	r := report.Aggregate([]report.Item{item(5), item(5), item(1)})

	assert.InDelta(t, 73.333333, r.Percentage, 1e-5)
	assert.Equal(t, 73.33, r.DisplayPercentage())

	full := report.Aggregate([]report.Item{item(5)})
	assert.Equal(t, 100.0, full.DisplayPercentage())
}

func TestRoundPercentage(t *testing.T) {
	assert.Equal(t, 66.67, report.RoundPercentage(200.0/3))
	assert.Equal(t, 0.0, report.RoundPercentage(0))
}
