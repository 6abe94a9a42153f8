// Package store persists evaluation reports.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/quesans/backend/internal/domain/report"
)

var (
	ErrNotFound = errors.New("not found")
)

// StoredReport is a report together with its persistence metadata.
type StoredReport struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Report    report.Report
}

// ReportSummary is a list entry describing a stored report without its items.
type ReportSummary struct {
	ID         string
	Source     string
	CreatedAt  time.Time
	Count      int
	TotalScore float64
	MaxScore   float64
	Percentage float64
}

// Store is the persistence boundary used by the grading service and the API.
type Store interface {
	SaveReport(ctx context.Context, source string, r report.Report) (string, error)
	GetReport(ctx context.Context, id string) (*StoredReport, error)
	ListReports(ctx context.Context) ([]ReportSummary, error)
	Close() error
}
