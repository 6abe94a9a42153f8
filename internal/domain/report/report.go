package report

import (
	"math"

	"github.com/quesans/backend/internal/domain/evaluation"
	"github.com/quesans/backend/internal/domain/qa"
)

// Item pairs a segmented record with its grade.
type Item struct {
	Record qa.Record
	Result evaluation.Result
}

// Report aggregates the grades of one run. Totals are kept unrounded.
type Report struct {
	Items      []Item
	TotalScore float64
	MaxScore   float64
	Percentage float64
}

// Aggregate sums the scores of items in order. An empty run has a
// percentage of 0.
func Aggregate(items []Item) Report {
	r := Report{
		Items:    items,
		MaxScore: float64(evaluation.MaxScore * len(items)),
	}
	for _, item := range items {
		r.TotalScore += item.Result.Score
	}
	if r.MaxScore > 0 {
		r.Percentage = 100 * r.TotalScore / r.MaxScore
	}
	return r
}

// DisplayPercentage is the percentage rounded to two decimals.
func (r Report) DisplayPercentage() float64 {
	return RoundPercentage(r.Percentage)
}

// RoundPercentage rounds p to two decimals.
func RoundPercentage(p float64) float64 {
	return math.Round(p*100) / 100
}

// Count returns the number of graded records.
func (r Report) Count() int {
	return len(r.Items)
}
