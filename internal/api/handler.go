// Package api exposes grading and stored reports over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/store"
)

// Grader runs a grading pass and persists the result.
// *service.GradingService implements it.
type Grader interface {
	GradeAndSave(ctx context.Context, source string, records []qa.Record) (string, report.Report, error)
}

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	grader Grader
	store  store.Store
	logger *zap.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(g Grader, s store.Store, logger *zap.Logger) (*Handler, error) {
	if g == nil {
		return nil, errors.New("grader is required")
	}
	if s == nil {
		return nil, errors.New("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		grader: g,
		store:  s,
		logger: logger.Named("api"),
	}, nil
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError writes {"error": msg} with the given status code.
func respondError(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Error: msg})
}

// handleStoreError maps store errors to HTTP replies. It returns the reply
// error and true when err was non-nil.
func (h *Handler) handleStoreError(c echo.Context, err error, entity string) (error, bool) {
	if err == nil {
		return nil, false
	}
	if errors.Is(err, store.ErrNotFound) {
		return respondError(c, http.StatusNotFound, entity+" not found"), true
	}
	h.logger.Error("store error", zap.String("entity", entity), zap.Error(err))
	return respondError(c, http.StatusInternalServerError, "internal error"), true
}
