package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docuflow/workscan/pkg/scan"
)

// timeFormat is the storage layout for all timestamp columns.
const timeFormat = time.RFC3339

// Store persists scan results. One SaveRun call writes one runs row plus
// every reconstructed collection in a single transaction.
type Store struct {
	db *sql.DB
}

// New creates a Store backed by the given database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveRun persists the result of one scan invocation and returns the
// generated run identifier. The whole write is transactional: a failure
// on any row leaves the database untouched.
func (s *Store) SaveRun(ctx context.Context, result *scan.Result) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, files_scanned, files_failed) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(timeFormat), result.FilesScanned, len(result.Errors),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	if err := insertSessions(ctx, tx, runID, result.Sessions); err != nil {
		return "", err
	}
	if err := insertOCRAttempts(ctx, tx, runID, result.OCRAttempts); err != nil {
		return "", err
	}
	if err := insertDetailedAttempts(ctx, tx, runID, result.DetailedAttempts); err != nil {
		return "", err
	}
	if err := insertTimeGaps(ctx, tx, runID, result.TimeGaps); err != nil {
		return "", err
	}
	if err := insertBreaks(ctx, tx, runID, result.Breaks); err != nil {
		return "", err
	}
	if err := insertFieldEdits(ctx, tx, runID, result.FieldEdits); err != nil {
		return "", err
	}
	if err := insertShortcuts(ctx, tx, runID, result.Shortcuts); err != nil {
		return "", err
	}
	if err := insertImageRecords(ctx, tx, runID, result.ImageRecords); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return runID, nil
}

func insertSessions(ctx context.Context, tx *sql.Tx, runID string, sessions []scan.Session) error {
	for _, sess := range sessions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (run_id, user, date, start_time, end_time,
				duration_seconds, duration_minutes, images, images_processed,
				total_records, update_count, character_count,
				total_ocr_seconds, total_name_ocr_seconds, log_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, sess.User, sess.Date,
			sess.StartTime.Format(timeFormat), nullableTime(sess.EndTime),
			sess.DurationSeconds, sess.DurationMinutes,
			len(sess.Records), sess.ImagesProcessed, sess.TotalRecordCount,
			sess.UpdateCount, sess.CharacterCount,
			sess.TotalOCRSeconds, sess.TotalNameOCRSeconds, sess.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}
	}
	return nil
}

func insertOCRAttempts(ctx context.Context, tx *sql.Tx, runID string, attempts []scan.OCRAttempt) error {
	for _, a := range attempts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ocr_attempts (run_id, user, date, image_id, image_number,
				clipboard_count, name_clipboard_count,
				duration_seconds, total_duration_seconds,
				start_time, end_time, text, is_name_attempt, log_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, a.User, a.Date, a.ImageID, a.ImageNumber,
			a.ClipboardCount, a.NameClipboardCount,
			a.DurationSeconds, a.TotalDurationSeconds,
			nullableTime(a.StartTime), nullableTime(a.EndTime),
			a.Text, boolInt(a.IsNameAttempt), a.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting ocr attempt: %w", err)
		}
	}
	return nil
}

func insertDetailedAttempts(ctx context.Context, tx *sql.Tx, runID string, attempts []scan.DetailedOCRAttempt) error {
	for _, a := range attempts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ocr_attempts_detailed (run_id, user, date,
				start_time, end_time, duration_seconds, duration_minutes,
				original_text, clipboard_text, confirmed, log_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, a.User, a.Date,
			a.StartTime.Format(timeFormat), a.EndTime.Format(timeFormat),
			a.DurationSeconds, a.DurationMinutes,
			a.OriginalText, a.ClipboardText, boolInt(a.Confirmed), a.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting detailed ocr attempt: %w", err)
		}
	}
	return nil
}

func insertTimeGaps(ctx context.Context, tx *sql.Tx, runID string, gaps []scan.TimeGap) error {
	for _, g := range gaps {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO time_gaps (run_id, user, date, start_time, end_time, duration_seconds, log_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, g.User, g.Date,
			g.Start.Format(timeFormat), g.End.Format(timeFormat),
			int(g.Duration.Seconds()), g.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting time gap: %w", err)
		}
	}
	return nil
}

func insertBreaks(ctx context.Context, tx *sql.Tx, runID string, breaks []scan.BreakInterval) error {
	for _, b := range breaks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO break_intervals (run_id, user, date, start_time, end_time, duration_seconds, log_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, b.User, b.Date,
			b.Start.Format(timeFormat), b.End.Format(timeFormat),
			int(b.Duration.Seconds()), b.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting break interval: %w", err)
		}
	}
	return nil
}

func insertFieldEdits(ctx context.Context, tx *sql.Tx, runID string, edits []scan.FieldEdit) error {
	for _, e := range edits {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO field_edits (run_id, user, date, field, count, log_file)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, e.User, e.Date, e.Field, e.Count, e.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting field edit: %w", err)
		}
	}
	return nil
}

func insertShortcuts(ctx context.Context, tx *sql.Tx, runID string, tallies []scan.ShortcutTally) error {
	for _, t := range tallies {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO shortcuts (run_id, user, date, key, count, log_file)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, t.User, t.Date, t.Key, t.Count, t.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting shortcut tally: %w", err)
		}
	}
	return nil
}

func insertImageRecords(ctx context.Context, tx *sql.Tx, runID string, counts []scan.ImageRecordCount) error {
	for _, c := range counts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO image_records (run_id, user, date, image_id, records, log_file)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, c.User, c.Date, c.ImageID, c.Records, c.LogFile,
		)
		if err != nil {
			return fmt.Errorf("inserting image record count: %w", err)
		}
	}
	return nil
}

// RunCounts reports the number of rows each collection holds for a run.
type RunCounts struct {
	Sessions         int
	OCRAttempts      int
	DetailedAttempts int
	TimeGaps         int
	Breaks           int
	FieldEdits       int
	Shortcuts        int
	ImageRecords     int
}

// CountRun returns the per-table row counts for one run.
func (s *Store) CountRun(ctx context.Context, runID string) (RunCounts, error) {
	var counts RunCounts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"sessions", &counts.Sessions},
		{"ocr_attempts", &counts.OCRAttempts},
		{"ocr_attempts_detailed", &counts.DetailedAttempts},
		{"time_gaps", &counts.TimeGaps},
		{"break_intervals", &counts.Breaks},
		{"field_edits", &counts.FieldEdits},
		{"shortcuts", &counts.Shortcuts},
		{"image_records", &counts.ImageRecords},
	} {
		row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table+" WHERE run_id = ?", runID)
		if err := row.Scan(q.dst); err != nil {
			return RunCounts{}, fmt.Errorf("counting %s: %w", q.table, err)
		}
	}
	return counts, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeFormat)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
