package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// ReadFile reads a log file fully into memory, resolving the leading
// timestamp of each line. Lines without a timestamp are kept: the scan
// engines need them for context, they just cannot anchor time math.
func ReadFile(path string, resolver *TimestampResolver) (*File, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	file := &File{
		Path: path,
		Name: filepath.Base(path),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	num := 0
	for scanner.Scan() {
		num++
		text := scanner.Text()
		line := Line{Text: text, Num: num}
		if ts, ok := resolver.Resolve(text); ok {
			line.Timestamp = ts
			line.HasTimestamp = true
		}
		file.Lines = append(file.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return file, nil
}
