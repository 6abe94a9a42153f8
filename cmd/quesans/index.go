package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quesans/backend/internal/app"
	"github.com/quesans/backend/internal/refstore"
)

// indexCmd stores the answers of a document as reference answers
var indexCmd = &cobra.Command{
	Use:   "index [document]",
	Short: "Store a document's answers in the reference answer database",
	Long: `Split a document into questions and answers and store every answer in the
vector database. Answers are keyed by their position, so indexing the same
document again writes nothing new.

Examples:
  quesans index model-answers.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(documentPath(args))
	if err != nil {
		return err
	}

	rs, err := refstore.Open(app.RefStoreConfig(cfg), logger)
	if err != nil {
		return err
	}
	defer rs.Close()

	written, err := rs.StoreReferenceAnswers(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("error storing in vector database: %w", err)
	}

	msg := fmt.Sprintf("Stored %d new answers in vector database (%d already present).", written, len(records)-written)
	fmt.Fprintln(cmd.OutOrStdout(), renderSuccess(msg, noColor))
	return nil
}
