package scan

import (
	"testing"
)

func TestOCRNameAttempt(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:05:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:06:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:06:07 - scripts.config - DEBUG - Text copied to clipboard: 'Jane Smith'",
	)

	result := analyze(file)
	if len(result.OCRAttempts) != 1 {
		t.Fatalf("len(OCRAttempts) = %d, want 1", len(result.OCRAttempts))
	}

	a := result.OCRAttempts[0]
	if !a.IsNameAttempt {
		t.Error("IsNameAttempt = false, want true for multi-word clipboard text")
	}
	if a.DurationSeconds != 7 {
		t.Errorf("DurationSeconds = %v, want 7", a.DurationSeconds)
	}
	if a.Text != "Jane Smith" {
		t.Errorf("Text = %q, want Jane Smith", a.Text)
	}
	if a.User != "104" || a.Date != "2024-03-14" {
		t.Errorf("identity = %s/%s, want 104/2024-03-14", a.User, a.Date)
	}
	if a.ImageID != "7015423" || a.ImageNumber != "12_3" {
		t.Errorf("image = %s/%s", a.ImageID, a.ImageNumber)
	}
	if a.ClipboardCount != 1 || a.NameClipboardCount != 1 {
		t.Errorf("clipboard counts = %d/%d, want 1/1", a.ClipboardCount, a.NameClipboardCount)
	}
	if a.StartTime == nil || a.EndTime == nil {
		t.Fatal("name attempt must carry start and end times")
	}
	if !a.StartTime.Equal(at(9, 6, 0)) || !a.EndTime.Equal(at(9, 6, 7)) {
		t.Errorf("times = %v..%v", *a.StartTime, *a.EndTime)
	}

	// The file-wide totals ride on the session
	if len(result.Sessions) != 1 {
		t.Fatalf("len(Sessions) = %d, want 1", len(result.Sessions))
	}
	if result.Sessions[0].TotalOCRSeconds != 7 {
		t.Errorf("TotalOCRSeconds = %v, want 7", result.Sessions[0].TotalOCRSeconds)
	}
	if result.Sessions[0].TotalNameOCRSeconds != 7 {
		t.Errorf("TotalNameOCRSeconds = %v, want 7", result.Sessions[0].TotalNameOCRSeconds)
	}
}

func TestOCRSummaryRowAveragesDurations(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:05:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:06:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:06:07 - scripts.config - DEBUG - Text copied to clipboard: 'Smith'",
		"2024-03-14 09:07:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:07:03 - scripts.config - DEBUG - Text copied to clipboard: '7015423'",
	)

	result := analyze(file)
	if len(result.OCRAttempts) != 1 {
		t.Fatalf("len(OCRAttempts) = %d, want 1", len(result.OCRAttempts))
	}

	a := result.OCRAttempts[0]
	if a.IsNameAttempt {
		t.Error("single-token clipboard text must not produce a name attempt")
	}
	if a.DurationSeconds != 5 {
		t.Errorf("DurationSeconds = %v, want mean 5", a.DurationSeconds)
	}
	if a.TotalDurationSeconds != 10 {
		t.Errorf("TotalDurationSeconds = %v, want sum 10", a.TotalDurationSeconds)
	}
	if a.ClipboardCount != 2 || a.NameClipboardCount != 0 {
		t.Errorf("clipboard counts = %d/%d, want 2/0", a.ClipboardCount, a.NameClipboardCount)
	}
}

func TestOCRAbandonedAttemptDiscardedByDefault(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:05:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:06:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:07:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:07:05 - scripts.config - DEBUG - Text copied to clipboard: '7015423'",
	)

	result := analyze(file)
	if len(result.OCRAttempts) != 1 {
		t.Fatalf("len(OCRAttempts) = %d, want 1", len(result.OCRAttempts))
	}
	// Only the second start is paired; the first is dropped as noise
	if got := result.OCRAttempts[0].TotalDurationSeconds; got != 5 {
		t.Errorf("TotalDurationSeconds = %v, want 5", got)
	}
}

func TestOCRCarryOverClosesAbandonedAttempt(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:05:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:06:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:07:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:07:05 - scripts.config - DEBUG - Text copied to clipboard: '7015423'",
	)

	result := AnalyzeFile(file, newTestClassifier(), Options{OCRCarryOver: true})
	if len(result.OCRAttempts) != 1 {
		t.Fatalf("len(OCRAttempts) = %d, want 1", len(result.OCRAttempts))
	}
	a := result.OCRAttempts[0]
	// The abandoned attempt closes at the new start: 60s, then 5s
	if a.TotalDurationSeconds != 65 {
		t.Errorf("TotalDurationSeconds = %v, want 65", a.TotalDurationSeconds)
	}
	if a.DurationSeconds != 32.5 {
		t.Errorf("DurationSeconds = %v, want 32.5", a.DurationSeconds)
	}
}

func TestOCRClipboardWithoutImageIgnored(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:06:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:06:07 - scripts.config - DEBUG - Text copied to clipboard: 'Jane Smith'",
	)

	result := analyze(file)
	if len(result.OCRAttempts) != 0 {
		t.Errorf("len(OCRAttempts) = %d, want 0 without an image context", len(result.OCRAttempts))
	}
}

func TestOCRMultipleImagesKeepInputOrder(t *testing.T) {
	file := buildFile("104_2024-03-14.log",
		"2024-03-14 09:00:00 - config - INFO - Logging initialized for user: 104 on 2024-03-14",
		"2024-03-14 09:05:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 12_003 for all records of 7015423",
		"2024-03-14 09:06:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:06:04 - scripts.config - DEBUG - Text copied to clipboard: '7015423'",
		"2024-03-14 09:10:00 - scripts.config - INFO - Updated IMAGE_NUMBER to 13_001 for all records of 7015424",
		"2024-03-14 09:11:00 - scripts.config - INFO - HWR mode set to True",
		"2024-03-14 09:11:02 - scripts.config - DEBUG - Text copied to clipboard: '7015424'",
	)

	result := analyze(file)
	if len(result.OCRAttempts) != 2 {
		t.Fatalf("len(OCRAttempts) = %d, want 2", len(result.OCRAttempts))
	}
	if result.OCRAttempts[0].ImageID != "7015423" || result.OCRAttempts[1].ImageID != "7015424" {
		t.Errorf("attempt order = %s, %s; want input order",
			result.OCRAttempts[0].ImageID, result.OCRAttempts[1].ImageID)
	}
}
