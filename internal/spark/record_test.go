package spark

import (
	"strings"
	"testing"
	"time"
)

func TestTokenEstimateFloor(t *testing.T) {
	if got := TokenEstimate(""); got != 1 {
		t.Errorf("TokenEstimate(\"\") = %d, want 1", got)
	}
	if got := TokenEstimate("abc"); got != 1 {
		t.Errorf("TokenEstimate(3 runes) = %d, want 1", got)
	}
	if got := TokenEstimate("abcd"); got != 1 {
		t.Errorf("TokenEstimate(4 runes) = %d, want 1", got)
	}
	if got := TokenEstimate("abcde"); got != 2 {
		t.Errorf("TokenEstimate(5 runes) = %d, want 2", got)
	}
	if got := TokenEstimate(strings.Repeat("ü", 8)); got != 2 {
		t.Errorf("TokenEstimate(8 multibyte runes) = %d, want 2", got)
	}
}

func TestNewRecordFrontMatterDateWins(t *testing.T) {
	modTime := time.Date(2025, 8, 11, 12, 0, 0, 0, time.Local)
	content := "---\ntitle: T\ncategory: note\ndate: 2025-08-01 08:00:00\n---\nbody"

	record := NewRecord("/sparks/a.md", content, modTime)

	want := time.Date(2025, 8, 1, 8, 0, 0, 0, time.Local)
	if !record.CreatedDate.Equal(want) {
		t.Errorf("CreatedDate = %v, want front matter date %v", record.CreatedDate, want)
	}
	if record.Title != "T" || record.Category != "note" {
		t.Errorf("metadata = %q/%q", record.Title, record.Category)
	}
	if record.Content != content {
		t.Error("Content must keep the raw text, front matter included")
	}
}

func TestNewRecordFallsBackToModTime(t *testing.T) {
	modTime := time.Date(2025, 8, 11, 12, 0, 0, 0, time.Local)
	record := NewRecord("/sparks/b.md", "plain note", modTime)

	if !record.CreatedDate.Equal(modTime) {
		t.Errorf("CreatedDate = %v, want mod time %v", record.CreatedDate, modTime)
	}
	if record.Category != "unknown" {
		t.Errorf("Category = %q, want unknown", record.Category)
	}
}

func TestNewRecordEpochSentinel(t *testing.T) {
	record := NewRecord("/sparks/c.md", "no dates anywhere", time.Time{})

	if !record.CreatedDate.Equal(time.Unix(0, 0)) {
		t.Errorf("CreatedDate = %v, want epoch sentinel", record.CreatedDate)
	}
}
