// Package parser provides log file reading and timestamp resolution.
package parser

import "time"

// Line represents a single log line with its resolved timestamp.
type Line struct {
	// Text is the original line content, without the trailing newline.
	Text string

	// Num is the 1-based line number in the source file.
	Num int

	// Timestamp is the parsed leading timestamp, zero if the line has none.
	Timestamp time.Time

	// HasTimestamp reports whether Timestamp was resolved from the line.
	HasTimestamp bool
}

// File is a fully buffered log file. The scan engines need random access
// to prior lines (the session close heuristic walks backward), so files
// are read into memory rather than streamed.
type File struct {
	// Path is the full path the file was read from.
	Path string

	// Name is the base name of the file, used to label derived records.
	Name string

	// Lines holds every line of the file in order.
	Lines []Line
}
