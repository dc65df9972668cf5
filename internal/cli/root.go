// Package cli wires the metaform commands: a form server and interactive
// column management.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "metaform",
	Short: "Metadata entry form server for biomedical sample submissions",
	Long: `metaform hosts the sample metadata entry form: an ontology-backed
autocomplete table with dynamic columns, CSV header import, column grouping,
and multipart submission assembly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns its exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default metaform.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose logging")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
