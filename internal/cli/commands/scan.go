package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docuflow/workscan/pkg/config"
	"github.com/docuflow/workscan/pkg/output"
	"github.com/docuflow/workscan/pkg/parser"
	"github.com/docuflow/workscan/pkg/scan"
	"github.com/docuflow/workscan/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	Config       string
	Output       string
	GapThreshold time.Duration
	OCRCarryOver bool
	Verbose      bool
	Quiet        bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [log-file|dir|glob ...]",
		Short: "Reconstruct work sessions from log files",
		Long: `Scan workstation log files and reconstruct the activity they record.

Reports:
  - Work sessions (login-bounded, with durations and edit tallies)
  - OCR attempts (simple and detailed pairing)
  - Time gaps (idle spans over the threshold)
  - Break intervals between sessions of the same user and date

Paths may be files, directories (scanned for *.log), or glob patterns.
When no paths are given, the configured log sources are used.

Exit codes:
  0 - Scan completed, no time gaps detected
  1 - Time gaps detected
  2 - Configuration or runtime error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().DurationVar(&opts.GapThreshold, "gap-threshold", 0, "Minimum idle span reported as a gap (e.g. 2m, 90s)")
	cmd.Flags().BoolVar(&opts.OCRCarryOver, "ocr-carry-over", false, "Close abandoned OCR attempts at the next start instead of discarding them")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show OCR attempts and field edits, not just sessions")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_gaps", "When to fire webhook (on_gaps|always|never)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	cfg, sources, files, err := resolveSources(ctx, opts.Config, args)
	if err != nil {
		return err
	}

	result, err := scanSources(ctx, cfg, files, opts)
	if err != nil {
		return err
	}

	reportFileErrors(result)

	report := output.NewReport(result, sources, started)

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are reported but never fail the scan
	sendWebhooks(ctx, cfg, opts, report)

	if report.HasGaps() {
		ExitCode = 1
	}

	return nil
}

// resolveSources loads the configuration and expands the log sources.
// Command-line paths take precedence over configured sources.
func resolveSources(ctx context.Context, configPath string, args []string) (*config.Config, []string, []string, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	sources := args
	if len(sources) == 0 {
		sources = cfg.LogSources
	}
	if len(sources) == 0 {
		return nil, nil, nil, fmt.Errorf("no log sources: pass paths or set log_sources in the config")
	}

	files, err := parser.ExpandGlobs(sources)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("expanding log sources: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, nil, fmt.Errorf("no log files matched: %v", sources)
	}

	return cfg, sources, files, nil
}

// scanSources runs the full scan over the resolved files.
func scanSources(ctx context.Context, cfg *config.Config, files []string, opts *ScanOptions) (*scan.Result, error) {
	resolver := parser.NewTimestampResolver(
		cfg.TimestampFormat.CompiledPattern(),
		cfg.TimestampFormat.Layout,
	)
	classifier := scan.NewClassifier(resolver)

	scanOpts := scan.Options{
		GapThreshold: cfg.Gaps.Threshold,
		OCRCarryOver: cfg.OCR.CarryOver,
	}
	if opts.GapThreshold > 0 {
		scanOpts.GapThreshold = opts.GapThreshold
	}
	if opts.OCRCarryOver {
		scanOpts.OCRCarryOver = true
	}

	result := scan.ScanFiles(ctx, files, resolver, classifier, scanOpts)
	if result.FilesScanned == 0 && len(result.Errors) > 0 {
		return nil, fmt.Errorf("no files could be read (%d failed)", len(result.Errors))
	}
	return result, nil
}

// reportFileErrors prints per-file read failures to stderr. A failed file
// never aborts the batch.
func reportFileErrors(result *scan.Result) {
	for _, fe := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %v\n", fe.Path, fe.Err)
	}
}

func createFormatter(opts *ScanOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the scan.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ScanOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasGaps()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ScanOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnGaps
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and gaps.
func shouldFireWebhook(trigger config.WebhookTrigger, hasGaps bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnGaps:
		return hasGaps
	default:
		return hasGaps
	}
}
