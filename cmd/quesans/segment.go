package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// segmentCmd prints the question and answer pairs of a document
var segmentCmd = &cobra.Command{
	Use:   "segment [document]",
	Short: "Print the question and answer pairs of a document as JSON",
	Long: `Split a document into numbered questions and answers without grading them.
The output has the same qa_list shape that POST /evaluate accepts.

Examples:
  quesans segment answers.pdf > qa.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func runSegment(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(documentPath(args))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]any{"qa_list": records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
