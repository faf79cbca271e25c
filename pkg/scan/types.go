// Package scan reconstructs work sessions, OCR attempts, idle gaps, and
// edit tallies from buffered workstation log files.
package scan

import "time"

// Session is a contiguous span of activity for one user on one date,
// bounded by login events. A session stays open and mutable until the
// next login in the same file or end of file closes it.
type Session struct {
	User string `json:"user"`
	Date string `json:"date"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	DurationSeconds float64 `json:"duration_seconds"`
	DurationMinutes float64 `json:"duration_minutes"`

	// Records holds every distinct image identifier touched by the session.
	Records map[string]struct{} `json:"-"`

	// ImageRecords maps an image identifier to the set of record indices
	// reached on that image. Indices are tracked as a set so the maximum,
	// not the sum, counts toward TotalRecordCount.
	ImageRecords map[string]map[int]struct{} `json:"-"`

	UpdateCount    int            `json:"update_count"`
	CharacterCount int            `json:"character_count"`
	FieldEdits     map[string]int `json:"field_edits,omitempty"`

	// ImagesProcessed is the explicit count from a DOC_TYPE update, or the
	// number of images with at least one recorded index when no explicit
	// count was seen.
	ImagesProcessed int `json:"images_processed"`

	// TotalRecordCount is the sum, over all images, of the maximum record
	// index reached on that image.
	TotalRecordCount int `json:"total_record_count"`

	// File-wide OCR duration totals, attached to every session of the file.
	TotalOCRSeconds     float64 `json:"total_ocr_seconds"`
	TotalNameOCRSeconds float64 `json:"total_name_ocr_seconds"`

	LogFile string `json:"log_file"`
}

// OCRAttempt is one reconstructed OCR invocation for an image context,
// produced by the simple pairing heuristic. Name attempts carry their own
// start/end pair; non-name images collapse to a single summary row with
// the mean and sum of observed durations.
type OCRAttempt struct {
	User        string `json:"user"`
	Date        string `json:"date"`
	ImageID     string `json:"image_id"`
	ImageNumber string `json:"image_number"`

	ClipboardCount     int `json:"clipboard_count"`
	NameClipboardCount int `json:"name_clipboard_count"`

	DurationSeconds      float64 `json:"duration_seconds"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Text          string `json:"text,omitempty"`
	IsNameAttempt bool   `json:"is_name_attempt"`

	LogFile string `json:"log_file"`
}

// DetailedOCRAttempt is one OCR invocation reconstructed by the stricter
// file-scoped pairing variant, which only treats an end time as
// authoritative once a later update line overlaps the clipboard text.
type DetailedOCRAttempt struct {
	User string `json:"user"`
	Date string `json:"date"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	DurationSeconds float64 `json:"duration_seconds"`
	DurationMinutes float64 `json:"duration_minutes"`

	OriginalText  string `json:"original_text,omitempty"`
	ClipboardText string `json:"clipboard_text,omitempty"`

	// Confirmed reports whether a later update line overlapped the
	// clipboard text, upgrading the end time from tentative to confirmed.
	Confirmed bool `json:"confirmed"`

	LogFile string `json:"log_file"`
}

// TimeGap is an idle span between two consecutive parseable log lines
// exceeding the configured threshold, independent of session boundaries.
type TimeGap struct {
	User string `json:"user,omitempty"`
	Date string `json:"date,omitempty"`

	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`

	StartLine string `json:"start_line"`
	EndLine   string `json:"end_line"`

	LogFile string `json:"log_file"`
}

// BreakInterval is the idle span between two sessions of the same user on
// the same date, derived after all files have been scanned.
type BreakInterval struct {
	User string `json:"user"`
	Date string `json:"date"`

	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`

	LogFile string `json:"log_file"`
}

// FieldEdit is a (user, date, field) edit count. Tallies are additive
// across the whole file and are not reset by session closure.
type FieldEdit struct {
	User  string `json:"user"`
	Date  string `json:"date"`
	Field string `json:"field"`
	Count int    `json:"count"`

	LogFile string `json:"log_file"`
}

// ShortcutTally counts presses of one keyboard shortcut in a file,
// attributed to the file's most recent login user and date.
type ShortcutTally struct {
	User  string `json:"user,omitempty"`
	Date  string `json:"date,omitempty"`
	Key   string `json:"key"`
	Count int    `json:"count"`

	LogFile string `json:"log_file"`
}

// ImageRecordCount is the number of unique records processed on one image,
// derived from the trailing record references that follow an image update.
type ImageRecordCount struct {
	User    string `json:"user,omitempty"`
	Date    string `json:"date,omitempty"`
	ImageID string `json:"image_id"`
	Records int    `json:"records"`

	LogFile string `json:"log_file"`
}

// FileImageSummary counts the unique and processed images of one file,
// keyed by the identity encoded in the file name.
type FileImageSummary struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`

	UniqueImages    int `json:"unique_images"`
	ProcessedImages int `json:"processed_images"`
}

// FileResult holds everything reconstructed from a single log file.
type FileResult struct {
	Sessions         []Session
	OCRAttempts      []OCRAttempt
	DetailedAttempts []DetailedOCRAttempt
	TimeGaps         []TimeGap
	FieldEdits       []FieldEdit
	Shortcuts        []ShortcutTally
	ImageRecords     []ImageRecordCount
	ImageSummary     FileImageSummary

	LogFile string
}

// Result is the merged output of scanning a set of files, plus the
// post-pass break intervals.
type Result struct {
	Sessions         []Session
	OCRAttempts      []OCRAttempt
	DetailedAttempts []DetailedOCRAttempt
	TimeGaps         []TimeGap
	Breaks           []BreakInterval
	FieldEdits       []FieldEdit
	Shortcuts        []ShortcutTally
	ImageRecords     []ImageRecordCount
	ImageSummaries   []FileImageSummary

	FilesScanned int

	// Errors holds one entry per file that could not be read. A failed
	// file contributes zero events and never aborts the batch.
	Errors []FileError
}

// FileError records a file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}
