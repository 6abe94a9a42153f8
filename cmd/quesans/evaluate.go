package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/app"
	"github.com/quesans/backend/internal/document"
	"github.com/quesans/backend/internal/domain/qa"
	"github.com/quesans/backend/internal/domain/report"
	"github.com/quesans/backend/internal/service"
	"github.com/quesans/backend/internal/store"
)

var (
	evalWorkers int
	evalSave    bool
)

// evaluateCmd grades every answer in a document
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [document]",
	Short: "Grade every answer in a document",
	Long: `Split a PDF or text document into numbered questions and answers and grade
each answer out of 5.

Examples:
  # Grade the default document (quesans.pdf)
  quesans evaluate

  # Grade four answers at a time and keep the report
  quesans evaluate --workers 4 --save answers.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().IntVar(&evalWorkers, "workers", 0, "answers graded at once (default eval.workers)")
	evaluateCmd.Flags().BoolVar(&evalSave, "save", false, "store the report in the report database")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := documentPath(args)
	records, err := loadRecords(path)
	if err != nil {
		return err
	}

	eval, closeEval, err := app.NewEvaluator(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer closeEval()

	workers := cfg.Eval.Workers
	if evalWorkers > 0 {
		workers = evalWorkers
	}
	out := cmd.OutOrStdout()
	opts := []service.Option{
		service.WithWorkers(workers),
		service.WithProgress(func(index int, item report.Item) {
			renderItem(out, index, item, noColor)
		}),
	}

	if evalSave {
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open report database: %w", err)
		}
		defer st.Close()
		opts = append(opts, service.WithStore(st))
	}

	gs, err := service.NewGradingService(eval, logger, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderTitle("Evaluating Student Answers from "+path+":", noColor))
	fmt.Fprintln(out, "----------------------------------------")

	reportID, r, err := gs.GradeAndSave(ctx, path, records)
	renderSummary(out, r, noColor)
	if err != nil {
		return err
	}
	if reportID != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderMuted("Saved report "+reportID, noColor))
	}
	return nil
}

// loadRecords reads a document and splits it into question and answer records.
func loadRecords(path string) ([]qa.Record, error) {
	text, err := document.LoadText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records := qa.Segment(text)
	logger.Info("document segmented", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

