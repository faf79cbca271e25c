package scan

import (
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// Options controls per-file scan behavior.
type Options struct {
	// GapThreshold is the minimum idle span reported as a time gap.
	// Zero means DefaultGapThreshold.
	GapThreshold time.Duration

	// OCRCarryOver closes an abandoned OCR attempt at the next start
	// instead of discarding it.
	OCRCarryOver bool
}

// AnalyzeFile runs every tracker over one buffered file in a single
// ordered pass and returns the reconstructed records. All scan state is
// local to the call, so identical input yields identical output and
// files can be analyzed concurrently.
func AnalyzeFile(file *parser.File, classifier *Classifier, opts Options) *FileResult {
	sessions := newSessionTracker(file.Name)
	attempts := newAttemptPairer(file.Name, opts.OCRCarryOver)
	detailed := newDetailedPairer(file.Name)
	fields := newFieldTracker(file.Name)
	shortcuts := newShortcutTracker(file.Name)
	imageRecords := newImageRecordTracker(file.Name)
	imageSummary := newImageSummaryTracker(file.Name)

	for i, line := range file.Lines {
		matches := classifier.Classify(line.Text)
		if len(matches) == 0 {
			continue
		}

		// The OCR pairer observes before the session tracker so a line
		// that both logs in and carries OCR context is seen in the same
		// order the log writer emitted its events.
		attempts.observe(matches)
		sessions.observe(file.Lines, i, matches)
		detailed.observe(line, matches)
		fields.observe(matches)
		shortcuts.observe(matches)
		imageRecords.observe(matches)
		imageSummary.observe(matches)
	}

	result := &FileResult{
		Sessions:         sessions.finish(file.Lines),
		DetailedAttempts: detailed.finish(),
		TimeGaps:         DetectGaps(file, opts.GapThreshold),
		FieldEdits:       fields.finish(),
		Shortcuts:        shortcuts.finish(),
		ImageRecords:     imageRecords.finish(),
		ImageSummary:     imageSummary.finish(),
		LogFile:          file.Name,
	}

	ocr, totalSecs, totalNameSecs := attempts.finish()
	result.OCRAttempts = ocr

	// File-wide OCR totals ride along on every session of the file.
	for i := range result.Sessions {
		result.Sessions[i].TotalOCRSeconds = totalSecs
		result.Sessions[i].TotalNameOCRSeconds = totalNameSecs
	}

	return result
}
