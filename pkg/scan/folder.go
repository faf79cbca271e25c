package scan

import (
	"context"
	"sync"

	"github.com/docuflow/workscan/pkg/parser"
)

// ScanFiles analyzes a set of log files with one worker per file and
// merges the per-file collections in input order, so output is
// deterministic regardless of worker completion order. The break-time
// post-pass runs after the merge, since it needs the full session
// collection. Per-file scan state is never shared between workers; each
// returns its own collections (partition-then-merge, no locking).
func ScanFiles(ctx context.Context, paths []string, resolver *parser.TimestampResolver, classifier *Classifier, opts Options) *Result {
	type slot struct {
		result *FileResult
		err    error
	}

	slots := make([]slot, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			file, err := parser.ReadFile(path, resolver)
			if err != nil {
				slots[i].err = err
				return
			}
			slots[i].result = AnalyzeFile(file, classifier, opts)
		}(i, path)
	}
	wg.Wait()

	merged := &Result{}
	for i, s := range slots {
		if s.err != nil {
			merged.Errors = append(merged.Errors, FileError{Path: paths[i], Err: s.err})
			continue
		}
		if s.result == nil {
			continue
		}
		merged.FilesScanned++
		merged.Sessions = append(merged.Sessions, s.result.Sessions...)
		merged.OCRAttempts = append(merged.OCRAttempts, s.result.OCRAttempts...)
		merged.DetailedAttempts = append(merged.DetailedAttempts, s.result.DetailedAttempts...)
		merged.TimeGaps = append(merged.TimeGaps, s.result.TimeGaps...)
		merged.FieldEdits = append(merged.FieldEdits, s.result.FieldEdits...)
		merged.Shortcuts = append(merged.Shortcuts, s.result.Shortcuts...)
		merged.ImageRecords = append(merged.ImageRecords, s.result.ImageRecords...)
		merged.ImageSummaries = append(merged.ImageSummaries, s.result.ImageSummary)
	}

	merged.Breaks = CalculateBreaks(merged.Sessions)

	return merged
}
