package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/quesans/backend/internal/app"
	"github.com/quesans/backend/internal/refstore"
)

var nearestK int

// nearestCmd finds stored reference answers similar to a text
var nearestCmd = &cobra.Command{
	Use:   "nearest <text>",
	Short: "Find reference answers similar to a text",
	Long: `Query the reference answer database for the answers closest to the given text.

Examples:
  quesans nearest -k 5 "a goroutine is a lightweight thread"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNearest,
}

func init() {
	nearestCmd.Flags().IntVarP(&nearestK, "k", "k", 3, "number of answers to return")
}

func runNearest(cmd *cobra.Command, args []string) error {
	rs, err := refstore.Open(app.RefStoreConfig(cfg), logger)
	if err != nil {
		return err
	}
	defer rs.Close()

	matches, err := rs.Nearest(cmd.Context(), strings.Join(args, " "), nearestK)
	if err != nil {
		return err
	}

	renderMatches(cmd.OutOrStdout(), matches, noColor)
	return nil
}
