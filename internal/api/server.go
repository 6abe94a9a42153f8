package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/metrics"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Timeouts bounds the phases of every connection. Zero leaves a phase
// unbounded.
type Timeouts struct {
	Read       time.Duration
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
}

// Apply sets the timeouts on srv, typically the echo instance's Server.
func (t Timeouts) Apply(srv *http.Server) {
	srv.ReadTimeout = t.Read
	srv.ReadHeaderTimeout = t.ReadHeader
	srv.WriteTimeout = t.Write
	srv.IdleTimeout = t.Idle
}

// NewServer builds the echo instance with middleware and every route.
// m may be nil, in which case /metrics is not mounted.
func NewServer(h *Handler, m *metrics.Metrics, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	// Middleware chain: Recover -> RequestID -> Logging -> CORS
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})

	RegisterRoutes(e, h)

	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	// Swagger UI served at /swagger/
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.WrapHandler))

	return e
}

// RegisterRoutes mounts the grading and report endpoints.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/evaluate", h.evaluate)
	e.POST("/segment", h.segment)

	e.GET("/reports", h.listReports)
	e.GET("/reports/:id", h.getReport)
	e.GET("/reports/:id/export", h.exportReport)
}

// errorHandler renders every unhandled error, including recovered panics,
// as {"error": msg}.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}

		if err := respondError(c, status, msg); err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	}
}
