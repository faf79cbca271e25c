package scan

import (
	"math"
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// sessionTracker is the per-file session state machine. It holds at most
// one open session; a login either opens the first session or closes the
// current one and opens the next.
type sessionTracker struct {
	current  *Session
	sessions []Session
	logFile  string
}

func newSessionTracker(logFile string) *sessionTracker {
	return &sessionTracker{logFile: logFile}
}

// observe feeds one line's matches into the tracker. The line index is
// needed so a closing login can scan backward for the prior timestamps.
func (t *sessionTracker) observe(lines []parser.Line, i int, matches []Match) {
	for _, m := range matches {
		switch ev := m.(type) {
		case LoginMatch:
			if t.current != nil {
				t.close(lines, i)
			}
			t.current = &Session{
				User:         ev.User,
				Date:         ev.Date,
				StartTime:    ev.Time,
				Records:      make(map[string]struct{}),
				ImageRecords: make(map[string]map[int]struct{}),
				FieldEdits:   make(map[string]int),
				LogFile:      t.logFile,
			}

		case ImageUpdateMatch:
			if t.current == nil {
				continue
			}
			t.current.Records[ev.ImageID] = struct{}{}
			if _, ok := t.current.ImageRecords[ev.ImageID]; !ok {
				t.current.ImageRecords[ev.ImageID] = make(map[int]struct{})
			}

		case RecordIndexMatch:
			if t.current == nil {
				continue
			}
			if _, ok := t.current.ImageRecords[ev.ImageID]; !ok {
				t.current.ImageRecords[ev.ImageID] = make(map[int]struct{})
			}
			t.current.ImageRecords[ev.ImageID][ev.Index] = struct{}{}

		case FieldEditMatch:
			if t.current == nil {
				continue
			}
			t.current.CharacterCount += len(ev.Value)
			t.current.FieldEdits[ev.Field]++

		case DocTypeUpdateMatch:
			if t.current == nil {
				continue
			}
			t.current.ImagesProcessed = ev.Count

		case GenericUpdateMatch:
			if t.current == nil {
				continue
			}
			t.current.UpdateCount++
		}
	}
}

// finish closes any open session at end of file and returns all sessions.
func (t *sessionTracker) finish(lines []parser.Line) []Session {
	if t.current != nil {
		t.close(lines, len(lines))
	}
	return t.sessions
}

// close finalizes the open session against the lines before cutoff.
func (t *sessionTracker) close(lines []parser.Line, cutoff int) {
	s := t.current
	t.current = nil

	if end, ok := sessionEndBefore(lines, cutoff); ok {
		secs := end.Sub(s.StartTime).Seconds()
		if secs < 0 {
			secs = 0
		}
		e := end
		s.EndTime = &e
		s.DurationSeconds = secs
		s.DurationMinutes = math.Round(secs/60*100) / 100
	}

	s.TotalRecordCount = 0
	for _, indices := range s.ImageRecords {
		max := 0
		for idx := range indices {
			if idx > max {
				max = idx
			}
		}
		s.TotalRecordCount += max
	}

	if s.ImagesProcessed == 0 {
		for _, indices := range s.ImageRecords {
			if len(indices) > 0 {
				s.ImagesProcessed++
			}
		}
	}

	t.sessions = append(t.sessions, *s)
}

// sessionEndBefore walks backward from cutoff collecting the two most
// recent distinct parseable timestamps, skipping login lines. The
// second-most-recent one is the session end when it exists; the last line
// of a session often lags real activity (a flush or trailing OCR line),
// so the one before it is the more stable proxy.
func sessionEndBefore(lines []parser.Line, cutoff int) (time.Time, bool) {
	var last, secondLast time.Time
	haveLast := false

	for j := cutoff - 1; j >= 0; j-- {
		if IsLoginLine(lines[j].Text) {
			continue
		}
		if !lines[j].HasTimestamp {
			continue
		}
		ts := lines[j].Timestamp
		if !haveLast {
			last = ts
			haveLast = true
			continue
		}
		if ts.Equal(last) {
			continue
		}
		secondLast = ts
		return secondLast, true
	}

	if haveLast {
		return last, true
	}
	return time.Time{}, false
}
