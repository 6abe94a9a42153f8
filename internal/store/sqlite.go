package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quesans/backend/internal/domain/evaluation"
	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/id"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    created_at TEXT NOT NULL,
    total_score REAL NOT NULL,
    max_score REAL NOT NULL,
    percentage REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS report_results (
    report_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    score REAL NOT NULL,
    feedback TEXT NOT NULL,
    evaluation TEXT NOT NULL,
    PRIMARY KEY (report_id, position),
    FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		now: time.Now,
	}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveReport stores the report and its items in one transaction and returns
// the new report ID.
func (s *SQLiteStore) SaveReport(ctx context.Context, source string, r report.Report) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	reportID := id.GenerateID()
	createdAt := s.now().UTC().Format(time.RFC3339Nano)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, source, created_at, total_score, max_score, percentage)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reportID, source, createdAt, r.TotalScore, r.MaxScore, r.Percentage,
	)
	if err != nil {
		return "", fmt.Errorf("inserting report: %w", err)
	}

	for i, item := range r.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO report_results (report_id, position, question, answer, score, feedback, evaluation)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			reportID, i, item.Record.Question, item.Record.Answer,
			item.Result.Score, item.Result.Feedback, item.Result.Evaluation,
		)
		if err != nil {
			return "", fmt.Errorf("inserting result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return reportID, nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, reportID string) (*StoredReport, error) {
	var (
		stored    StoredReport
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, total_score, max_score, percentage FROM reports WHERE id = ?`,
		reportID,
	).Scan(
		&stored.ID, &stored.Source, &createdAt,
		&stored.Report.TotalScore, &stored.Report.MaxScore, &stored.Report.Percentage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	stored.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer, score, feedback, evaluation
		 FROM report_results WHERE report_id = ? ORDER BY position`,
		reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stored.Report.Items = make([]report.Item, 0)
	for rows.Next() {
		var (
			rec qa.Record
			res evaluation.Result
		)
		if err := rows.Scan(&rec.Question, &rec.Answer, &res.Score, &res.Feedback, &res.Evaluation); err != nil {
			return nil, err
		}
		stored.Report.Items = append(stored.Report.Items, report.Item{Record: rec, Result: res})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stored, nil
}

// ListReports returns summaries of all reports, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context) ([]ReportSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.created_at, r.total_score, r.max_score, r.percentage,
		       (SELECT COUNT(*) FROM report_results rr WHERE rr.report_id = r.id)
		FROM reports r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]ReportSummary, 0)
	for rows.Next() {
		var (
			sum       ReportSummary
			createdAt string
		)
		if err := rows.Scan(
			&sum.ID, &sum.Source, &createdAt,
			&sum.TotalScore, &sum.MaxScore, &sum.Percentage, &sum.Count,
		); err != nil {
			return nil, err
		}
		sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
