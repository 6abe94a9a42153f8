package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quesans/backend/internal/api"
	"github.com/quesans/backend/internal/app"
	"github.com/quesans/backend/internal/infrastructure/config"
	"github.com/quesans/backend/internal/logging"
	"github.com/quesans/backend/internal/metrics"
	"github.com/quesans/backend/internal/service"
	"github.com/quesans/backend/internal/store"

	_ "github.com/quesans/backend/docs" // generated swagger docs
)

// @title           quesans API
// @version         1.0
// @description     Split answer documents into question and answer pairs and grade each answer with a language model.

// @host      localhost:8080
// @BasePath  /

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open database", zap.String("path", cfg.Store.Path), zap.Error(err))
		return err
	}
	defer db.Close()

	m := metrics.New()

	eval, closeEval, err := app.NewEvaluator(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("failed to create evaluator", zap.Error(err))
		return err
	}
	defer closeEval()

	gradingSvc, err := service.NewGradingService(eval, logger,
		service.WithStore(db),
		service.WithMetrics(m),
		service.WithWorkers(cfg.Eval.Workers),
	)
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(gradingSvc, db, logger)
	if err != nil {
		return err
	}

	// ── Server ──────────────────────────────────────────────────────
	e := api.NewServer(handler, m, logger)
	api.Timeouts{
		Read:       cfg.Server.ReadTimeout,
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	}.Apply(e.Server)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", cfg.Server.Address))
		if err := e.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed to start", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down server")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	return nil
}
