package scan

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// Kind identifies the event type a line match represents.
type Kind string

const (
	KindLogin          Kind = "login"
	KindImageUpdate    Kind = "image_update"
	KindOCRImage       Kind = "ocr_image"
	KindRecordIndex    Kind = "record_index_update"
	KindFieldEdit      Kind = "field_edit"
	KindDocTypeUpdate  Kind = "doc_type_update"
	KindGenericUpdate  Kind = "generic_update"
	KindShortcut       Kind = "shortcut"
	KindOCRStart       Kind = "ocr_start"
	KindClipboard      Kind = "ocr_end_clipboard"
	KindOriginalText   Kind = "text_original"
	KindOCRInvoke      Kind = "ocr_invoke"
	KindTrailingRecord Kind = "trailing_record"
)

// Match is one classified event extracted from a log line. A single line
// can produce several matches; callers must dispatch on every one, not
// just the first.
type Match interface {
	Kind() Kind
}

// LoginMatch marks the start of a session.
type LoginMatch struct {
	Time time.Time
	User string
	Date string
}

func (LoginMatch) Kind() Kind { return KindLogin }

// ImageUpdateMatch registers an image against the open session.
type ImageUpdateMatch struct {
	ImageNumber string
	ImageID     string
}

func (ImageUpdateMatch) Kind() Kind { return KindImageUpdate }

// OCRImageMatch is the zero-padded image update form that switches the
// OCR pairer's image context.
type OCRImageMatch struct {
	ImageNumber string
	ImageID     string
}

func (OCRImageMatch) Kind() Kind { return KindOCRImage }

// RecordIndexMatch records the record index reached on an image.
type RecordIndexMatch struct {
	Index   int
	ImageID string
}

func (RecordIndexMatch) Kind() Kind { return KindRecordIndex }

// FieldEditMatch is a logged modification of a named field.
type FieldEditMatch struct {
	Field   string
	Value   string
	ImageID string
}

func (FieldEditMatch) Kind() Kind { return KindFieldEdit }

// DocTypeUpdateMatch carries the explicit processed-image count.
type DocTypeUpdateMatch struct {
	Count int
}

func (DocTypeUpdateMatch) Kind() Kind { return KindDocTypeUpdate }

// GenericUpdateMatch fires for any line containing the UPDATED token.
// Field holds the token following UPDATED when one exists.
type GenericUpdateMatch struct {
	Field string
}

func (GenericUpdateMatch) Kind() Kind { return KindGenericUpdate }

// ShortcutMatch is a keyboard shortcut press.
type ShortcutMatch struct {
	Key string
}

func (ShortcutMatch) Kind() Kind { return KindShortcut }

// OCRStartMatch marks the beginning of an OCR attempt.
type OCRStartMatch struct {
	Time time.Time
}

func (OCRStartMatch) Kind() Kind { return KindOCRStart }

// ClipboardMatch is a clipboard capture. HasTime is set only for the
// timestamped debug form, which is the one that can close an OCR attempt.
type ClipboardMatch struct {
	Text    string
	Time    time.Time
	HasTime bool
}

func (ClipboardMatch) Kind() Kind { return KindClipboard }

// OriginalTextMatch carries the pre-correction OCR text.
type OriginalTextMatch struct {
	Text string
}

func (OriginalTextMatch) Kind() Kind { return KindOriginalText }

// OCRInvokeMatch is the crop-and-recognize marker used by the detailed
// pairing variant as its attempt start.
type OCRInvokeMatch struct {
	Time    time.Time
	HasTime bool
}

func (OCRInvokeMatch) Kind() Kind { return KindOCRInvoke }

// TrailingRecordMatch is a line ending in "of N", associating a record
// with the most recently updated image.
type TrailingRecordMatch struct {
	RecordID string
}

func (TrailingRecordMatch) Kind() Kind { return KindTrailingRecord }

// loginMarker is the substring the session close heuristic skips over.
const loginMarker = "- config - INFO - Logging initialized for user:"

var loginLineRE = regexp.MustCompile(
	`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - (?:config) - INFO - Logging initialized for user: (.+) on (\d{4}-\d{2}-\d{2})`)

// loginPattern exposes the compiled login pattern to scanners that track
// user/date context without running the full classifier.
func loginPattern() *regexp.Regexp {
	return loginLineRE
}

// Classifier turns raw log lines into typed matches. It is stateless and
// purely textual; all temporal logic lives in the scan trackers.
type Classifier struct {
	resolver *parser.TimestampResolver

	login         *regexp.Regexp
	imageUpdate   *regexp.Regexp
	ocrImage      *regexp.Regexp
	recordIndex   *regexp.Regexp
	fieldEdit     *regexp.Regexp
	docType       *regexp.Regexp
	genericUpdate *regexp.Regexp
	shortcut      *regexp.Regexp
	ocrStart      *regexp.Regexp
	clipboard     *regexp.Regexp
	clipboardTS   *regexp.Regexp
	originalText  *regexp.Regexp
	invokeTS      *regexp.Regexp
	trailingRec   *regexp.Regexp
}

// NewClassifier creates a classifier. Timestamps captured inside event
// patterns are parsed with the resolver's layout; a match whose timestamp
// fails to parse is dropped, not the whole line.
func NewClassifier(resolver *parser.TimestampResolver) *Classifier {
	return &Classifier{
		resolver: resolver,

		login: loginLineRE,
		imageUpdate: regexp.MustCompile(`Updated IMAGE_NUMBER to (\d+)_\d+ for all records of (\d+)`),
		ocrImage:    regexp.MustCompile(`Updated IMAGE_NUMBER to (\d+)_00(\d+) for all records of (\d+)`),
		recordIndex: regexp.MustCompile(`UPDATED r_num\s+TO (\d+) of (\d+)`),
		fieldEdit:   regexp.MustCompile(`UPDATED (\w+) .+ TO (.+?) of (\d+)`),
		docType:     regexp.MustCompile(`Updated DOC_TYPE for (\d+) local records`),
		genericUpdate: regexp.MustCompile(`UPDATED (\w+)`),
		shortcut: regexp.MustCompile(
			`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - scripts\.config - INFO - ([\w+]+) pressed`),
		ocrStart: regexp.MustCompile(
			`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - scripts\.config - INFO - HWR mode set to True`),
		clipboard: regexp.MustCompile(`Text copied to clipboard: '(.+)'`),
		clipboardTS: regexp.MustCompile(
			`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - scripts\.config - DEBUG - Text copied to clipboard: '(.+)'`),
		originalText: regexp.MustCompile(`Original Text => '([^']*)'`),
		invokeTS:     regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`),
		trailingRec:  regexp.MustCompile(`of (\d+)$`),
	}
}

// IsLoginLine reports whether a line is a session start marker. The
// session close heuristic uses this to skip login lines while scanning
// backward for prior timestamps.
func IsLoginLine(text string) bool {
	return strings.Contains(text, loginMarker)
}

// Classify evaluates every pattern against the line and returns all
// matches. A line that matches nothing returns an empty slice; that is
// not an error.
func (c *Classifier) Classify(text string) []Match {
	var matches []Match

	if m := c.login.FindStringSubmatch(text); m != nil {
		if ts, err := c.resolver.ParseAt(m[1]); err == nil {
			matches = append(matches, LoginMatch{Time: ts, User: m[2], Date: m[3]})
		}
	}

	if m := c.imageUpdate.FindStringSubmatch(text); m != nil {
		matches = append(matches, ImageUpdateMatch{ImageNumber: m[1], ImageID: m[2]})
	}

	if m := c.ocrImage.FindStringSubmatch(text); m != nil {
		matches = append(matches, OCRImageMatch{ImageNumber: m[1] + "_" + m[2], ImageID: m[3]})
	}

	if m := c.recordIndex.FindStringSubmatch(text); m != nil {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			matches = append(matches, RecordIndexMatch{Index: idx, ImageID: m[2]})
		}
	}

	if m := c.fieldEdit.FindStringSubmatch(text); m != nil {
		matches = append(matches, FieldEditMatch{Field: m[1], Value: m[2], ImageID: m[3]})
	}

	if m := c.docType.FindStringSubmatch(text); m != nil {
		if count, err := strconv.Atoi(m[1]); err == nil {
			matches = append(matches, DocTypeUpdateMatch{Count: count})
		}
	}

	if strings.Contains(text, "UPDATED") {
		field := ""
		if m := c.genericUpdate.FindStringSubmatch(text); m != nil {
			field = m[1]
		}
		matches = append(matches, GenericUpdateMatch{Field: field})
	}

	if m := c.shortcut.FindStringSubmatch(text); m != nil {
		matches = append(matches, ShortcutMatch{Key: m[1]})
	}

	if m := c.ocrStart.FindStringSubmatch(text); m != nil {
		if ts, err := c.resolver.ParseAt(m[1]); err == nil {
			matches = append(matches, OCRStartMatch{Time: ts})
		}
	}

	if m := c.clipboardTS.FindStringSubmatch(text); m != nil {
		if ts, err := c.resolver.ParseAt(m[1]); err == nil {
			matches = append(matches, ClipboardMatch{Text: m[2], Time: ts, HasTime: true})
		}
	} else if m := c.clipboard.FindStringSubmatch(text); m != nil {
		matches = append(matches, ClipboardMatch{Text: m[1]})
	}

	if m := c.originalText.FindStringSubmatch(text); m != nil {
		matches = append(matches, OriginalTextMatch{Text: m[1]})
	}

	if strings.Contains(text, "perform_ocr_on_cropped_image:") {
		invoke := OCRInvokeMatch{}
		if m := c.invokeTS.FindStringSubmatch(text); m != nil {
			if ts, err := c.resolver.ParseAt(m[1]); err == nil {
				invoke.Time = ts
				invoke.HasTime = true
			}
		}
		matches = append(matches, invoke)
	}

	if m := c.trailingRec.FindStringSubmatch(text); m != nil {
		matches = append(matches, TrailingRecordMatch{RecordID: m[1]})
	}

	return matches
}
