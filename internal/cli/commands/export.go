package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docuflow/workscan/internal/store"
)

// ExportOptions holds command-line options for the export command.
type ExportOptions struct {
	Config       string
	Database     string
	GapThreshold time.Duration
	OCRCarryOver bool
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [log-file|dir|glob ...]",
		Short: "Scan log files and persist the results to SQLite",
		Long: `Scan workstation log files and write everything reconstructed into a
SQLite database: sessions, OCR attempts, time gaps, breaks, field edit
tallies, shortcut tallies, and per-image record counts.

Each invocation creates one run row; all collections reference it, so
repeated exports of the same logs stay separate.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().DurationVar(&opts.GapThreshold, "gap-threshold", 0, "Minimum idle span reported as a gap (e.g. 2m, 90s)")
	cmd.Flags().BoolVar(&opts.OCRCarryOver, "ocr-carry-over", false, "Close abandoned OCR attempts at the next start instead of discarding them")

	return cmd
}

func runExport(cmd *cobra.Command, args []string, opts *ExportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _, files, err := resolveSources(ctx, opts.Config, args)
	if err != nil {
		return err
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		return fmt.Errorf("no database path: pass --db or set database.path in the config")
	}

	scanOpts := &ScanOptions{
		GapThreshold: opts.GapThreshold,
		OCRCarryOver: opts.OCRCarryOver,
	}
	result, err := scanSources(ctx, cfg, files, scanOpts)
	if err != nil {
		return err
	}

	reportFileErrors(result)

	db, err := store.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	runID, err := store.New(db).SaveRun(ctx, result)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Run %s: %d files, %d sessions, %d gaps saved to %s\n",
		runID, result.FilesScanned, len(result.Sessions), len(result.TimeGaps), dbPath)

	return nil
}
