// Package main implements the quesans CLI: segment answer documents, grade
// them with a language model and manage reference answers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quesans/backend/internal/infrastructure/config"
	"github.com/quesans/backend/internal/logging"
)

var (
	// configPath is the optional YAML config file
	configPath string
	// noColor disables styled output
	noColor bool
	// version information
	version = "dev"

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quesans",
	Short: "Grade numbered question and answer documents with a language model",
	Long: `quesans reads a document of numbered questions and answers, splits it into
pairs and grades every answer out of 5 with a language model.

Configuration comes from an optional YAML file, a .env file and environment
variables such as LLM_URL, LLM_MODEL and RETRY_MAX_ATTEMPTS.`,
	Version:      version,
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default $QUESANS_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(nearestCmd)
}

// documentPath returns the first argument or the configured default.
func documentPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Document.Path
}
