// Package output renders scan results into report form.
package output

import (
	"fmt"
	"sort"
	"time"

	"github.com/docuflow/workscan/pkg/scan"
)

// clockLayout formats times of day in report rows.
const clockLayout = "15:04:05"

// Report is the complete scan output in flat, report-ready rows.
type Report struct {
	Summary []UserDateSummary `json:"summary"`

	Sessions         []SessionRow               `json:"sessions"`
	OCRAttempts      []scan.OCRAttempt          `json:"ocr_attempts"`
	DetailedAttempts []scan.DetailedOCRAttempt  `json:"detailed_ocr_attempts"`
	TimeGaps         []TimeGapRow               `json:"time_gaps"`
	Breaks           []BreakRow                 `json:"breaks"`
	FieldEdits       []scan.FieldEdit           `json:"field_edits"`
	Shortcuts        []scan.ShortcutTally       `json:"shortcuts"`
	ImageRecords     []scan.ImageRecordCount    `json:"image_records"`
	ImageSummaries   []scan.FileImageSummary    `json:"image_summaries"`

	Metadata Metadata `json:"metadata"`
}

// SessionRow is a session flattened for reporting.
type SessionRow struct {
	User            string  `json:"user"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time,omitempty"`
	DurationMinutes float64 `json:"duration_minutes"`
	TotalImages     int     `json:"total_images"`
	ImagesProcessed int     `json:"images_processed"`
	TotalRecords    int     `json:"total_records"`
	UpdateCount     int     `json:"update_count"`
	CharacterCount  int     `json:"character_count"`
	LogFile         string  `json:"log_file"`
}

// TimeGapRow is a time gap flattened for reporting.
type TimeGapRow struct {
	User            string  `json:"user,omitempty"`
	Date            string  `json:"date,omitempty"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Duration        string  `json:"duration"`
	DurationMinutes float64 `json:"duration_minutes"`
	LogFile         string  `json:"log_file"`
}

// BreakRow is a break interval flattened for reporting.
type BreakRow struct {
	User         string `json:"user"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakTime    string `json:"break_time"`
	BreakSeconds int    `json:"break_seconds"`
	LogFile      string `json:"log_file"`
}

// UserDateSummary aggregates one user's day across all scanned files.
type UserDateSummary struct {
	User string `json:"user"`
	Date string `json:"date"`

	TotalDuration string `json:"total_duration"`
	TotalIdle     string `json:"total_idle"`
	TotalBreak    string `json:"total_break"`

	// ActualIdle is idle time minus break time, clamped at zero: breaks
	// between sessions also show up as gaps, so they are not idle twice.
	ActualIdle string `json:"actual_idle"`

	BreakSeconds    int `json:"break_seconds"`
	Shortcuts       int `json:"shortcuts"`
	CharacterCount  int `json:"character_count"`
	RecordsProcessed int `json:"records_processed"`
	FieldEdits      int `json:"field_edits"`
	LogFiles        int `json:"log_files"`
}

// Metadata provides context about the scan run.
type Metadata struct {
	Sources      []string  `json:"sources,omitempty"`
	FilesScanned int       `json:"files_scanned"`
	FilesFailed  int       `json:"files_failed"`
	ScannedAt    time.Time `json:"scanned_at"`
	Duration     time.Duration `json:"duration"`
}

// FormatClock formats seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// NewReport flattens a scan result into report rows and computes the
// per-user/date summary.
func NewReport(result *scan.Result, sources []string, started time.Time) *Report {
	report := &Report{
		OCRAttempts:      result.OCRAttempts,
		DetailedAttempts: result.DetailedAttempts,
		FieldEdits:       result.FieldEdits,
		Shortcuts:        result.Shortcuts,
		ImageRecords:     result.ImageRecords,
		ImageSummaries:   result.ImageSummaries,
		Metadata: Metadata{
			Sources:      sources,
			FilesScanned: result.FilesScanned,
			FilesFailed:  len(result.Errors),
			ScannedAt:    time.Now(),
		},
	}
	report.Metadata.Duration = report.Metadata.ScannedAt.Sub(started)

	for _, s := range result.Sessions {
		row := SessionRow{
			User:            s.User,
			Date:            s.Date,
			StartTime:       s.StartTime.Format(clockLayout),
			DurationMinutes: s.DurationMinutes,
			TotalImages:     len(s.Records),
			ImagesProcessed: s.ImagesProcessed,
			TotalRecords:    s.TotalRecordCount,
			UpdateCount:     s.UpdateCount,
			CharacterCount:  s.CharacterCount,
			LogFile:         s.LogFile,
		}
		if s.EndTime != nil {
			row.EndTime = s.EndTime.Format(clockLayout)
		}
		report.Sessions = append(report.Sessions, row)
	}

	for _, g := range result.TimeGaps {
		report.TimeGaps = append(report.TimeGaps, TimeGapRow{
			User:            g.User,
			Date:            g.Date,
			StartTime:       g.Start.Format(clockLayout),
			EndTime:         g.End.Format(clockLayout),
			Duration:        FormatClock(int(g.Duration.Seconds())),
			DurationMinutes: float64(int(g.Duration.Seconds())) / 60,
			LogFile:         g.LogFile,
		})
	}

	for _, b := range result.Breaks {
		report.Breaks = append(report.Breaks, BreakRow{
			User:         b.User,
			Date:         b.Date,
			StartTime:    b.Start.Format(clockLayout),
			EndTime:      b.End.Format(clockLayout),
			BreakTime:    FormatClock(int(b.Duration.Seconds())),
			BreakSeconds: int(b.Duration.Seconds()),
			LogFile:      b.LogFile,
		})
	}

	report.Summary = summarize(result)

	return report
}

type userDate struct {
	user string
	date string
}

// summarize folds the merged collections into one row per (user, date).
func summarize(result *scan.Result) []UserDateSummary {
	type agg struct {
		durationSecs float64
		idleSecs     float64
		breakSecs    int
		shortcuts    int
		characters   int
		records      int
		fieldEdits   int
		logFiles     map[string]struct{}
	}

	aggs := make(map[userDate]*agg)
	var order []userDate

	get := func(k userDate) *agg {
		if a, ok := aggs[k]; ok {
			return a
		}
		a := &agg{logFiles: make(map[string]struct{})}
		aggs[k] = a
		order = append(order, k)
		return a
	}

	for _, s := range result.Sessions {
		a := get(userDate{s.User, s.Date})
		a.durationSecs += s.DurationSeconds
		a.characters += s.CharacterCount
		a.fieldEdits += s.UpdateCount
		a.logFiles[s.LogFile] = struct{}{}
	}
	for _, g := range result.TimeGaps {
		if g.User == "" {
			continue
		}
		get(userDate{g.User, g.Date}).idleSecs += g.Duration.Seconds()
	}
	for _, b := range result.Breaks {
		get(userDate{b.User, b.Date}).breakSecs += int(b.Duration.Seconds())
	}
	for _, sc := range result.Shortcuts {
		if sc.User == "" {
			continue
		}
		get(userDate{sc.User, sc.Date}).shortcuts += sc.Count
	}
	for _, ir := range result.ImageRecords {
		if ir.User == "" {
			continue
		}
		get(userDate{ir.User, ir.Date}).records += ir.Records
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].user != order[j].user {
			return order[i].user < order[j].user
		}
		return order[i].date < order[j].date
	})

	summaries := make([]UserDateSummary, 0, len(order))
	for _, k := range order {
		a := aggs[k]
		actualIdle := int(a.idleSecs) - a.breakSecs
		if actualIdle < 0 {
			actualIdle = 0
		}
		summaries = append(summaries, UserDateSummary{
			User:             k.user,
			Date:             k.date,
			TotalDuration:    FormatClock(int(a.durationSecs)),
			TotalIdle:        FormatClock(int(a.idleSecs)),
			TotalBreak:       FormatClock(a.breakSecs),
			ActualIdle:       FormatClock(actualIdle),
			BreakSeconds:     a.breakSecs,
			Shortcuts:        a.shortcuts,
			CharacterCount:   a.characters,
			RecordsProcessed: a.records,
			FieldEdits:       a.fieldEdits,
			LogFiles:         len(a.logFiles),
		})
	}

	return summaries
}

// HasGaps reports whether any time gaps were detected.
func (r *Report) HasGaps() bool {
	return len(r.TimeGaps) > 0
}
