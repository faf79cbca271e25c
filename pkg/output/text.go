package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "workscan: %d files, %d sessions, %d OCR attempts, %d gaps, %d breaks\n",
		report.Metadata.FilesScanned,
		len(report.Sessions),
		len(report.OCRAttempts),
		len(report.TimeGaps),
		len(report.Breaks))
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Workscan Activity Report ===")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[SESSIONS]")
	if len(report.Sessions) == 0 {
		fmt.Fprintln(w, "  No sessions reconstructed")
	}
	for _, s := range report.Sessions {
		end := s.EndTime
		if end == "" {
			end = "?"
		}
		fmt.Fprintf(w, "  - %s %s: %s - %s (%.2f min), %d images, %d updates, %d chars\n",
			s.User, s.Date, s.StartTime, end, s.DurationMinutes,
			s.TotalImages, s.UpdateCount, s.CharacterCount)
		if f.opts.Verbose {
			fmt.Fprintf(w, "    Source: %s\n", s.LogFile)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[BREAKS]")
	if len(report.Breaks) == 0 {
		fmt.Fprintln(w, "  No breaks detected")
	}
	for _, b := range report.Breaks {
		fmt.Fprintf(w, "  - %s %s: %s - %s (%s)\n",
			b.User, b.Date, b.StartTime, b.EndTime, b.BreakTime)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[TIME GAPS]")
	if len(report.TimeGaps) == 0 {
		fmt.Fprintln(w, "  No gaps above threshold")
	}
	for _, g := range report.TimeGaps {
		who := g.User
		if who == "" {
			who = "(no login)"
		}
		fmt.Fprintf(w, "  - %s: %s - %s (%s)\n", who, g.StartTime, g.EndTime, g.Duration)
		if f.opts.Verbose {
			fmt.Fprintf(w, "    Source: %s\n", g.LogFile)
		}
	}
	fmt.Fprintln(w)

	if f.opts.Verbose {
		fmt.Fprintln(w, "[OCR ATTEMPTS]")
		for _, a := range report.OCRAttempts {
			kind := "summary"
			if a.IsNameAttempt {
				kind = "name"
			}
			fmt.Fprintf(w, "  - image %s (%s): %s, %.2fs (total %.2fs), %d clipboard\n",
				a.ImageID, a.ImageNumber, kind, a.DurationSeconds,
				a.TotalDurationSeconds, a.ClipboardCount)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "[FIELD EDITS]")
		for _, fe := range report.FieldEdits {
			fmt.Fprintf(w, "  - %s %s: %s x%d\n", fe.User, fe.Date, fe.Field, fe.Count)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	for _, s := range report.Summary {
		fmt.Fprintf(w, "%s %s: worked %s, idle %s, break %s, actual idle %s, %d records\n",
			s.User, s.Date, s.TotalDuration, s.TotalIdle, s.TotalBreak,
			s.ActualIdle, s.RecordsProcessed)
	}
	fmt.Fprintf(w, "Summary: %d files scanned, %d failed, %d sessions, %d gaps, %d breaks\n",
		report.Metadata.FilesScanned,
		report.Metadata.FilesFailed,
		len(report.Sessions),
		len(report.TimeGaps),
		len(report.Breaks))

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}
