package parser

import (
	"fmt"
	"regexp"
	"time"
)

// DefaultLayout is the Go time layout matching the workstation log prefix.
const DefaultLayout = "2006-01-02 15:04:05"

// DefaultPattern matches the leading timestamp of a workstation log line.
// The first capture group must hold the timestamp text.
const DefaultPattern = `^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`

// TimestampResolver extracts and parses the leading timestamp of log lines.
type TimestampResolver struct {
	pattern *regexp.Regexp
	layout  string
}

// NewTimestampResolver creates a resolver from a compiled pattern and layout.
// The pattern's first capture group is parsed with the layout.
func NewTimestampResolver(pattern *regexp.Regexp, layout string) *TimestampResolver {
	return &TimestampResolver{
		pattern: pattern,
		layout:  layout,
	}
}

// NewDefaultResolver creates a resolver for the standard log prefix.
func NewDefaultResolver() *TimestampResolver {
	return NewTimestampResolver(regexp.MustCompile(DefaultPattern), DefaultLayout)
}

// Resolve attempts to extract and parse a timestamp from a log line.
// Returns the zero time and false if the line has no parseable timestamp.
func (r *TimestampResolver) Resolve(line string) (time.Time, bool) {
	matches := r.pattern.FindStringSubmatch(line)
	if len(matches) < 2 {
		return time.Time{}, false
	}

	ts, err := time.Parse(r.layout, matches[1])
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}

// ParseAt parses a timestamp string captured elsewhere (e.g. inside an
// event pattern) with the resolver's layout.
func (r *TimestampResolver) ParseAt(value string) (time.Time, error) {
	ts, err := time.Parse(r.layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}
	return ts, nil
}
