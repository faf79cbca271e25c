package scan

import (
	"regexp"
	"strings"
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// openDetailedAttempt is the detailed pairer's single open attempt.
type openDetailedAttempt struct {
	start         time.Time
	end           *time.Time
	originalText  string
	clipboardText string
	clipboardTime *time.Time
	confirmed     bool
}

// detailedPairer reconstructs OCR attempts with the stricter double-check
// policy: a clipboard capture only supplies a tentative end time, which a
// later update line must confirm by overlapping the first tokens of the
// clipboard text before it becomes authoritative. It runs independently
// of the simple pairer over the same lines, as two distinct algorithms.
type detailedPairer struct {
	logFile string

	user string
	date string

	current *openDetailedAttempt
	results []DetailedOCRAttempt
}

var (
	filenameUserPattern = regexp.MustCompile(`(\d+)_`)
	filenameDatePattern = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})\.log`)
)

// userFromFilename extracts the user identifier encoded in a log file
// name, or "Unknown" when the name carries none.
func userFromFilename(name string) string {
	if m := filenameUserPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return "Unknown"
}

// dateFromFilename extracts the date encoded in a log file name, or
// "Unknown" when the name carries none.
func dateFromFilename(name string) string {
	if m := filenameDatePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return "Unknown"
}

func newDetailedPairer(logFile string) *detailedPairer {
	return &detailedPairer{
		logFile: logFile,
		user:    userFromFilename(logFile),
		date:    dateFromFilename(logFile),
	}
}

func (p *detailedPairer) observe(line parser.Line, matches []Match) {
	for _, m := range matches {
		switch ev := m.(type) {
		case LoginMatch:
			p.user = strings.TrimSuffix(strings.TrimSpace(ev.User), ".")
			p.date = ev.Date

		case OCRInvokeMatch:
			p.flush()
			if ev.HasTime {
				p.current = &openDetailedAttempt{start: ev.Time}
			} else {
				p.current = nil
			}

		case OriginalTextMatch:
			if p.current != nil {
				p.current.originalText = ev.Text
			}

		case ClipboardMatch:
			if p.current == nil {
				continue
			}
			p.current.clipboardText = ev.Text
			if ev.HasTime {
				t := ev.Time
				p.current.clipboardTime = &t
				if p.current.end == nil {
					p.current.end = &t
				}
			}

		case GenericUpdateMatch:
			if p.current == nil || p.current.clipboardText == "" {
				continue
			}
			if !overlapsClipboard(line.Text, p.current.clipboardText) {
				continue
			}
			p.current.confirmed = true
			if line.HasTimestamp {
				t := line.Timestamp
				p.current.end = &t
			}
		}
	}
}

// overlapsClipboard reports whether the line contains any of the first
// three clipboard tokens that are at least three characters long.
func overlapsClipboard(line, clipboard string) bool {
	tokens := strings.Fields(strings.ReplaceAll(clipboard, "\n", " "))
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	for _, tok := range tokens {
		if len(tok) > 2 && strings.Contains(line, tok) {
			return true
		}
	}
	return false
}

// flush closes the open attempt, falling back to the clipboard time when
// no confirming update supplied an end. Attempts that never received any
// end event are dropped.
func (p *detailedPairer) flush() {
	cur := p.current
	p.current = nil
	if cur == nil {
		return
	}
	if cur.end == nil && cur.clipboardTime != nil {
		cur.end = cur.clipboardTime
	}
	if cur.end == nil {
		return
	}

	secs := cur.end.Sub(cur.start).Seconds()
	if secs < 0 {
		secs = 0
	}

	p.results = append(p.results, DetailedOCRAttempt{
		User:            p.user,
		Date:            p.date,
		StartTime:       cur.start,
		EndTime:         *cur.end,
		DurationSeconds: secs,
		DurationMinutes: secs / 60,
		OriginalText:    cur.originalText,
		ClipboardText:   cur.clipboardText,
		Confirmed:       cur.confirmed,
		LogFile:         p.logFile,
	})
}

func (p *detailedPairer) finish() []DetailedOCRAttempt {
	p.flush()
	return p.results
}
