package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLintAcceptsUniqueMarkers(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package q\n\nconst QA = `--sql 0b6f3c9e-4a1d-4a5e-9f0a-1c2d3e4f5a6b\nselect 1`\n")
	writeGo(t, dir, "b.go", "package q\n\nconst QB = `--sql 7d1e2f3a-5b6c-4d7e-8f90-a1b2c3d4e5f6\nselect 2`\n")

	violations, err := lint([]string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %+v", violations)
	}
}

func TestLintReportsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package q\n\nconst QA = `--sql 0b6f3c9e-4a1d-4a5e-9f0a-1c2d3e4f5a6b\nselect 1`\n")
	writeGo(t, dir, "b.go", "package q\n\nconst (\n\tQB = `--sql 0b6f3c9e-4a1d-4a5e-9f0a-1c2d3e4f5a6b\nselect 2`\n\tQC = \"delete from donations\"\n)\n")

	violations, err := lint([]string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %+v", violations)
	}
	var missing, dup bool
	for _, v := range violations {
		switch {
		case v.name == "QC" && strings.Contains(v.message, "missing"):
			missing = true
		case v.name == "QB" && strings.Contains(v.message, "already used by QA"):
			dup = true
		}
	}
	if !missing || !dup {
		t.Fatalf("unexpected violations: %+v", violations)
	}
}

func TestLintRepositorySQL(t *testing.T) {
	violations, err := lint([]string{"../../sqlinline"})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	for _, v := range violations {
		t.Errorf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
	}
}
