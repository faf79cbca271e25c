package scan

import (
	"testing"
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// buildFile constructs an in-memory log file from raw lines, resolving
// timestamps the same way ReadFile does.
func buildFile(name string, texts ...string) *parser.File {
	resolver := parser.NewDefaultResolver()
	file := &parser.File{Path: name, Name: name}
	for i, text := range texts {
		line := parser.Line{Text: text, Num: i + 1}
		if ts, ok := resolver.Resolve(text); ok {
			line.Timestamp = ts
			line.HasTimestamp = true
		}
		file.Lines = append(file.Lines, line)
	}
	return file
}

func analyze(file *parser.File) *FileResult {
	return AnalyzeFile(file, newTestClassifier(), Options{})
}

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 14, hour, min, sec, 0, time.UTC)
}

func TestSingleSession(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:05:30 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
		"2024-03-14 09:30:00 - scripts.config - INFO - UPDATED ADDRESS FROM '' TO Elm St of 7015423",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}

	s := result.Sessions[0]
	if s.User != "104" || s.Date != "2024-03-14" {
		t.Errorf("session identity = %s/%s, want 104/2024-03-14", s.User, s.Date)
	}
	if !s.StartTime.Equal(at(9, 0, 0)) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, at(9, 0, 0))
	}
	// End is the second-to-last distinct timestamp: 09:05:30
	if s.EndTime == nil {
		t.Fatal("EndTime = nil, want set")
	}
	if !s.EndTime.Equal(at(9, 5, 30)) {
		t.Errorf("EndTime = %v, want %v", *s.EndTime, at(9, 5, 30))
	}
	if s.DurationSeconds != 330 {
		t.Errorf("DurationSeconds = %v, want 330", s.DurationSeconds)
	}
	if s.DurationMinutes != 5.5 {
		t.Errorf("DurationMinutes = %v, want 5.5", s.DurationMinutes)
	}
	if s.LogFile != "104_2024-03-14.log" {
		t.Errorf("LogFile = %q", s.LogFile)
	}
}

func TestSecondLoginClosesSession(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 11:58:30 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
		"2024-03-14 11:59:45 - scripts.config - INFO - UPDATED CITY FROM '' TO Omaha of 7015423",
		"2024-03-14 12:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 12:05:00 - scripts.config - INFO - UPDATED STATE FROM '' TO NE of 7015424",
	)

	result := analyze(file)
	if len(result.Sessions) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(result.Sessions))
	}

	first := result.Sessions[0]
	if first.EndTime == nil {
		t.Fatal("first session EndTime = nil")
	}
	// The closing login is skipped; of the remaining lines the
	// second-to-last distinct timestamp is 11:58:30.
	if !first.EndTime.Equal(at(11, 58, 30)) {
		t.Errorf("first EndTime = %v, want %v", *first.EndTime, at(11, 58, 30))
	}

	second := result.Sessions[1]
	if !second.StartTime.Equal(at(12, 0, 0)) {
		t.Errorf("second StartTime = %v, want %v", second.StartTime, at(12, 0, 0))
	}
}

func TestBackwardScanSkipsDuplicateTimestamps(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 10:00:00 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
		"2024-03-14 10:30:00 - scripts.config - INFO - UPDATED CITY FROM '' TO Omaha of 7015423",
		"2024-03-14 10:30:00 - scripts.config - INFO - UPDATED STATE FROM '' TO NE of 7015423",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	s := result.Sessions[0]
	if s.EndTime == nil {
		t.Fatal("EndTime = nil")
	}
	// The two 10:30:00 lines collapse to one distinct timestamp, so the
	// second-most-recent distinct one is 10:00:00.
	if !s.EndTime.Equal(at(10, 0, 0)) {
		t.Errorf("EndTime = %v, want %v", *s.EndTime, at(10, 0, 0))
	}
}

func TestLoginOnlySessionFallsBackToLastTimestamp(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:00:05 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	s := result.Sessions[0]
	if s.EndTime == nil {
		t.Fatal("EndTime = nil")
	}
	// Only one non-login timestamp exists, so it serves as the end.
	if !s.EndTime.Equal(at(9, 0, 5)) {
		t.Errorf("EndTime = %v, want %v", *s.EndTime, at(9, 0, 5))
	}
}

func TestSessionWithNoTimestampsStaysOpen(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	s := result.Sessions[0]
	// The only timestamped line is the login itself, which the backward
	// scan skips, so the session has no end.
	if s.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", *s.EndTime)
	}
	if s.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %v, want 0", s.DurationSeconds)
	}
}

func TestSessionTallies(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:01:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:02:00 - scripts.config - INFO - UPDATED r_num  TO 2 of 7015423",
		"2024-03-14 09:03:00 - scripts.config - INFO - UPDATED r_num  TO 5 of 7015423",
		"2024-03-14 09:04:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 13_001 for all records of 7015424",
		"2024-03-14 09:05:00 - scripts.config - INFO - UPDATED r_num  TO 3 of 7015424",
		"2024-03-14 09:06:00 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015424",
		"2024-03-14 09:07:00 - scripts.config - INFO - UPDATED NAME FROM Jane TO Janet of 7015424",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	s := result.Sessions[0]

	// Max index per image: 5 on 7015423, 3 on 7015424
	if s.TotalRecordCount != 8 {
		t.Errorf("TotalRecordCount = %d, want 8", s.TotalRecordCount)
	}
	// No explicit DOC_TYPE count: images with indices are counted instead
	if s.ImagesProcessed != 2 {
		t.Errorf("ImagesProcessed = %d, want 2", s.ImagesProcessed)
	}
	if len(s.Records) != 2 {
		t.Errorf("len(Records) = %d, want 2", len(s.Records))
	}
	// "Jane" + "Janet"
	if s.CharacterCount != 9 {
		t.Errorf("CharacterCount = %d, want 9", s.CharacterCount)
	}
	if s.FieldEdits["NAME"] != 2 {
		t.Errorf("FieldEdits[NAME] = %d, want 2", s.FieldEdits["NAME"])
	}
	// Every UPDATED line counts: 2 r_num + 2 NAME... plus the image
	// update lines carry no UPDATED token.
	if s.UpdateCount != 4 {
		t.Errorf("UpdateCount = %d, want 4", s.UpdateCount)
	}
}

func TestDocTypeCountOverridesFallback(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:01:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:02:00 - scripts.config - INFO - UPDATED r_num  TO 2 of 7015423",
		"2024-03-14 09:03:00 - scripts.config - INFO - Updated DOC_TYPE for 7 local records",
		"2024-03-14 09:04:00 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	if got := result.Sessions[0].ImagesProcessed; got != 7 {
		t.Errorf("ImagesProcessed = %d, want 7", got)
	}
}

func TestEventsBeforeLoginDropped(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 08:59:00 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:01:00 - scripts.config - INFO - UPDATED CITY FROM '' TO Omaha of 7015423",
		"2024-03-14 09:02:00 - scripts.config - INFO - UPDATED STATE FROM '' TO NE of 7015423",
	)

	result := analyze(file)
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	s := result.Sessions[0]
	if s.UpdateCount != 2 {
		t.Errorf("UpdateCount = %d, want 2 (pre-login edit dropped)", s.UpdateCount)
	}
	if _, ok := s.FieldEdits["NAME"]; ok {
		t.Error("pre-login NAME edit must not reach the session")
	}
}

func TestAnalyzeFileDeterministic(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:01:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:02:00 - scripts.config - INFO - UPDATED r_num  TO 2 of 7015423",
		"2024-03-14 09:05:00 - scripts.config - INFO - UPDATED NAME FROM '' TO Jane of 7015423",
	)

	first := analyze(file)
	second := analyze(file)

	if len(first.Sessions) != len(second.Sessions) {
		t.Fatalf("session counts differ: %d vs %d", len(first.Sessions), len(second.Sessions))
	}
	if first.Sessions[0].TotalRecordCount != second.Sessions[0].TotalRecordCount {
		t.Error("TotalRecordCount differs between identical runs")
	}
	if len(first.FieldEdits) != len(second.FieldEdits) {
		t.Error("FieldEdits differ between identical runs")
	}
}
