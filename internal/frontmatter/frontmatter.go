// Package frontmatter extracts the delimited metadata header used at the
// top of spark files.
package frontmatter

import (
	"strings"
	"time"
)

// DateLayout is the timestamp format recognized in the date: field.
const DateLayout = "2006-01-02 15:04:05"

// DefaultCategory is used when a document carries no category.
const DefaultCategory = "unknown"

const delimiter = "---"

// Result holds the metadata parsed from a document plus the remaining body.
type Result struct {
	Title    string
	Category string
	Date     time.Time
	Tags     []string
	Body     string

	// HasFrontMatter reports whether a delimited header block was found.
	HasFrontMatter bool

	// DateParsed reports whether Date came from a well-formed date: field
	// rather than the caller-supplied fallback.
	DateParsed bool
}

// Parse scans document for a front-matter block and returns the recognized
// fields plus the body. A document has front matter iff its first line is
// "---" and a later line closes the block with "---". Unrecognized lines
// inside the block are ignored. A malformed date: value is non-fatal and
// leaves Date at now. Without a block, the whole document is the body and
// all fields take their defaults.
func Parse(document string, now time.Time) Result {
	res := Result{
		Category: DefaultCategory,
		Date:     now,
		Body:     document,
	}

	lines := strings.Split(document, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != delimiter {
		return res
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == delimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return res
	}

	res.HasFrontMatter = true

	var haveTitle, haveCategory, haveDate, haveTags bool
	for _, raw := range lines[1:closing] {
		line := strings.TrimRight(raw, "\r")
		switch {
		case !haveTitle && strings.HasPrefix(line, "title: "):
			res.Title = strings.TrimSpace(strings.TrimPrefix(line, "title: "))
			haveTitle = true
		case !haveCategory && strings.HasPrefix(line, "category: "):
			res.Category = strings.TrimSpace(strings.TrimPrefix(line, "category: "))
			haveCategory = true
		case !haveDate && strings.HasPrefix(line, "date: "):
			value := strings.TrimSpace(strings.TrimPrefix(line, "date: "))
			if parsed, err := time.ParseInLocation(DateLayout, value, time.Local); err == nil {
				res.Date = parsed
				res.DateParsed = true
			}
			haveDate = true
		case !haveTags && strings.HasPrefix(line, "tags: "):
			res.Tags = splitTags(strings.TrimPrefix(line, "tags: "))
			haveTags = true
		}
	}

	body := strings.Join(lines[closing+1:], "\n")
	res.Body = strings.TrimLeft(body, "\n")
	return res
}

func splitTags(value string) []string {
	var tags []string
	for _, part := range strings.Split(value, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
