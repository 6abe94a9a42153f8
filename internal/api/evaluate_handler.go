package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
)

const (
	msgNoQuestions    = "No questions and answers provided"
	msgIncompletePair = "Each Q&A pair must have both question and answer"
	msgNoText         = "No text provided"

	apiSource = "api"
)

// ── Request / Response types ────────────────────────────────────────────────

// QAPair is one question and answer. Pointers distinguish a missing field
// from an empty one.
type QAPair struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

type EvaluateRequest struct {
	QAList []QAPair `json:"qa_list"`
}

type ResultResponse struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Evaluation string  `json:"evaluation"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

type EvaluateResponse struct {
	ReportID   string           `json:"report_id"`
	Results    []ResultResponse `json:"results"`
	TotalScore float64          `json:"total_score"`
	MaxScore   float64          `json:"max_score"`
	Percentage float64          `json:"percentage"`
}

type SegmentRequest struct {
	Text *string `json:"text"`
}

type SegmentResponse struct {
	QAList []qa.Record `json:"qa_list"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// evaluate grades every pair in the request.
//
//	@Summary	Grade question and answer pairs
//	@Tags		evaluation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		EvaluateRequest	true	"Pairs to grade"
//	@Success	200		{object}	EvaluateResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/evaluate [post]
func (h *Handler) evaluate(c echo.Context) error {
	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("invalid evaluate request", zap.Error(err))
		return respondError(c, http.StatusBadRequest, msgNoQuestions)
	}
	if req.QAList == nil {
		return respondError(c, http.StatusBadRequest, msgNoQuestions)
	}

	// Every pair is checked before any of them is graded.
	records := make([]qa.Record, len(req.QAList))
	for i, pair := range req.QAList {
		if pair.Question == nil || pair.Answer == nil {
			return respondError(c, http.StatusBadRequest, msgIncompletePair)
		}
		records[i] = qa.New(*pair.Question, *pair.Answer)
	}

	// A failed save leaves the graded results intact; they are returned
	// without a report ID.
	reportID, r, err := h.grader.GradeAndSave(c.Request().Context(), apiSource, records)
	if err != nil {
		h.logger.Error("report not saved", zap.Int("records", r.Count()), zap.Error(err))
		reportID = ""
	}

	return c.JSON(http.StatusOK, toEvaluateResponse(reportID, r))
}

// segment splits raw text into question and answer pairs.
//
//	@Summary	Split raw text into question and answer pairs
//	@Tags		evaluation
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SegmentRequest	true	"Raw document text"
//	@Success	200		{object}	SegmentResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/segment [post]
func (h *Handler) segment(c echo.Context) error {
	var req SegmentRequest
	if err := c.Bind(&req); err != nil || req.Text == nil {
		return respondError(c, http.StatusBadRequest, msgNoText)
	}
	return c.JSON(http.StatusOK, SegmentResponse{QAList: qa.Segment(*req.Text)})
}

func toEvaluateResponse(reportID string, r report.Report) EvaluateResponse {
	resp := EvaluateResponse{
		ReportID:   reportID,
		Results:    make([]ResultResponse, len(r.Items)),
		TotalScore: r.TotalScore,
		MaxScore:   r.MaxScore,
		Percentage: r.DisplayPercentage(),
	}
	for i, item := range r.Items {
		resp.Results[i] = ResultResponse{
			Question:   item.Record.Question,
			Answer:     item.Record.Answer,
			Evaluation: item.Result.Evaluation,
			Score:      item.Result.Score,
			Feedback:   item.Result.Feedback,
		}
	}
	return resp
}
