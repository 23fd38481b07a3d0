// Package spark discovers note files under the watched root and turns
// them into ordered, immutable records.
package spark

import (
	"os"
	"time"
	"unicode/utf8"

	"github.com/kayz/motion/internal/frontmatter"
)

// Record is one discovered spark file. Records are never mutated after
// construction; the watcher rebuilds the whole list on every change.
type Record struct {
	// ID is the file's absolute path and the stable selection key.
	ID string

	Title       string
	Category    string
	CreatedDate time.Time

	// TokenEstimate is a rough prompt-size estimate, always >= 1.
	TokenEstimate int

	// Content is the full raw text of the file, front matter included.
	Content string
}

// TokenEstimate approximates the token count of text as ceil(runes/4),
// with a floor of 1 even for empty content.
func TokenEstimate(text string) int {
	runes := utf8.RuneCountInString(text)
	estimate := (runes + 3) / 4
	if estimate < 1 {
		return 1
	}
	return estimate
}

// NewRecord builds a record from a file's path, raw content and file
// modification time. The created date prefers the front matter date:
// field; files without one fall back to the modification time, and a
// zero modification time falls back to the epoch sentinel.
func NewRecord(path, content string, modTime time.Time) Record {
	fallback := modTime
	if fallback.IsZero() {
		fallback = time.Unix(0, 0)
	}

	meta := frontmatter.Parse(content, fallback)
	created := fallback
	if meta.DateParsed {
		created = meta.Date
	}

	return Record{
		ID:            path,
		Title:         meta.Title,
		Category:      meta.Category,
		CreatedDate:   created,
		TokenEstimate: TokenEstimate(content),
		Content:       content,
	}
}

// readRecord loads a single file into a record. The second return value
// is false when the file could not be read; callers skip it silently.
func readRecord(path string, modTime time.Time) (Record, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, false
	}
	return NewRecord(path, string(data), modTime), true
}
