// Package cli provides the command-line interface for workscan.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docuflow/workscan/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workscan",
		Short: "Reconstruct work activity from workstation logs",
		Long: `workscan reads timestamped workstation log files and reconstructs the
work they record.

It reports:
  - Work sessions bounded by login events, with durations and edit tallies
  - OCR attempts paired from start and clipboard events
  - Idle time gaps between consecutive log lines
  - Break intervals between sessions of the same user on the same date
  - Per-image record counts and keyboard shortcut usage

Results print as text or JSON, and can be exported to a SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
