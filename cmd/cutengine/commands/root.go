// Package commands implements the cutengine CLI surface: project lifecycle,
// estimation and nesting runs, cut sequencing, offcut pool management, and
// staleness reporting.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	projectPath string
	poolPath    string
	jsonOutput  bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cutengine",
		Short: "Cutengine - cutlist nesting and optimization",
		Long: `Cutengine computes sheet nestings for rectangular panel parts.

It provides:
  - Fast shelf-packing estimates for quoting
  - Exact guillotine nestings for production
  - Executable cut sequences derived from each nesting
  - A shared offcut pool turning reusable waste into stock
  - Staleness detection flagging results invalidated by edits`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "project.json", "project file path")
	rootCmd.PersistentFlags().StringVar(&poolPath, "pool", "", "offcut pool file path (default ~/.cutengine/offcuts.json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newEstimateCommand())
	rootCmd.AddCommand(newNestCommand())
	rootCmd.AddCommand(newCutsCommand())
	rootCmd.AddCommand(newOffcutsCommand())
	rootCmd.AddCommand(newStatusCommand())

	return rootCmd
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
