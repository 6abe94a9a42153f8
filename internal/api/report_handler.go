package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type ReportSummaryResponse struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	CreatedAt  string  `json:"created_at"`
	Count      int     `json:"count"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
}

type ListReportsResponse struct {
	Reports []ReportSummaryResponse `json:"reports"`
}

type ReportResponse struct {
	EvaluateResponse
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

type ExportData struct {
	Version    string         `json:"version"`
	ExportedAt string         `json:"exported_at"`
	Report     ReportResponse `json:"report"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listReports returns summaries of stored reports, newest first.
//
//	@Summary	List stored reports
//	@Tags		reports
//	@Produce	json
//	@Success	200	{object}	ListReportsResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/reports [get]
func (h *Handler) listReports(c echo.Context) error {
	summaries, err := h.store.ListReports(c.Request().Context())
	if resp, handled := h.handleStoreError(c, err, "reports"); handled {
		return resp
	}

	out := ListReportsResponse{Reports: make([]ReportSummaryResponse, len(summaries))}
	for i, s := range summaries {
		out.Reports[i] = ReportSummaryResponse{
			ID:         s.ID,
			Source:     s.Source,
			CreatedAt:  s.CreatedAt.UTC().Format(time.RFC3339),
			Count:      s.Count,
			TotalScore: s.TotalScore,
			MaxScore:   s.MaxScore,
			Percentage: report.RoundPercentage(s.Percentage),
		}
	}
	return c.JSON(http.StatusOK, out)
}

// getReport returns one stored report with all its results.
//
//	@Summary	Get a stored report
//	@Tags		reports
//	@Produce	json
//	@Param		id	path		string	true	"Report ID"
//	@Success	200	{object}	ReportResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/reports/{id} [get]
func (h *Handler) getReport(c echo.Context) error {
	stored, err := h.store.GetReport(c.Request().Context(), c.Param("id"))
	if resp, handled := h.handleStoreError(c, err, "report"); handled {
		return resp
	}
	return c.JSON(http.StatusOK, toReportResponse(stored))
}

// exportReport returns a stored report as a downloadable JSON file.
//
//	@Summary	Export a stored report
//	@Tags		reports
//	@Produce	json
//	@Param		id	path		string	true	"Report ID"
//	@Success	200	{object}	ExportData
//	@Failure	404	{object}	ErrorResponse
//	@Router		/reports/{id}/export [get]
func (h *Handler) exportReport(c echo.Context) error {
	stored, err := h.store.GetReport(c.Request().Context(), c.Param("id"))
	if resp, handled := h.handleStoreError(c, err, "report"); handled {
		return resp
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Report:     toReportResponse(stored),
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=quesans-report-%s.json", stored.ID))
	return c.JSON(http.StatusOK, exportData)
}

func toReportResponse(stored *store.StoredReport) ReportResponse {
	return ReportResponse{
		EvaluateResponse: toEvaluateResponse(stored.ID, stored.Report),
		Source:           stored.Source,
		CreatedAt:        stored.CreatedAt.UTC().Format(time.RFC3339),
	}
}
