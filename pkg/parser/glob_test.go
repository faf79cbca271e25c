package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandGlobsDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_2024-03-14.log", "b_2024-03-14.log", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ExpandGlobs([]string{dir})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "a_2024-03-14.log"),
		filepath.Join(dir, "b_2024-03-14.log"),
	}
	if len(got) != len(want) {
		t.Fatalf("ExpandGlobs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExpandGlobs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandGlobsPattern(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"104.log", "205.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ExpandGlobs([]string{filepath.Join(dir, "1*.log")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(got) != 1 || got[0] != filepath.Join(dir, "104.log") {
		t.Errorf("ExpandGlobs() = %v, want only 104.log", got)
	}
}

func TestExpandGlobsUnmatchedKeptLiteral(t *testing.T) {
	got, err := ExpandGlobs([]string{"/nonexistent/path.log"})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(got) != 1 || got[0] != "/nonexistent/path.log" {
		t.Errorf("ExpandGlobs() = %v, want literal path preserved", got)
	}
}

func TestExpandGlobsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "104.log")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandGlobs([]string{path, path, filepath.Join(dir, "*.log")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ExpandGlobs() = %v, want single deduplicated entry", got)
	}
}
