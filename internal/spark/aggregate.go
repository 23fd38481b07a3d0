package spark

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/kayz/motion/internal/frontmatter"
)

// aggregateItem is the JSON shape of one selected record. Empty fields
// are omitted entirely rather than emitted empty.
type aggregateItem struct {
	Title       string   `json:"title,omitempty"`
	Category    string   `json:"category,omitempty"`
	CreatedDate string   `json:"createdDate,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Content     string   `json:"content,omitempty"`
}

// Aggregate produces the Data payload from the selected records,
// preserving the records' existing newest-first order. With asJSON
// false the raw contents are joined with a blank line. With asJSON true
// each record's front matter is re-parsed and a pretty JSON array of
// the non-empty fields is returned; an empty selection yields "[]".
func Aggregate(records []Record, selected map[string]bool, asJSON bool) string {
	var chosen []Record
	for _, record := range records {
		if selected[record.ID] {
			chosen = append(chosen, record)
		}
	}

	if !asJSON {
		parts := make([]string, 0, len(chosen))
		for _, record := range chosen {
			parts = append(parts, record.Content)
		}
		return strings.Join(parts, "\n\n")
	}

	items := make([]aggregateItem, 0, len(chosen))
	for _, record := range chosen {
		meta := frontmatter.Parse(record.Content, record.CreatedDate)
		items = append(items, aggregateItem{
			Title:       meta.Title,
			Category:    meta.Category,
			CreatedDate: meta.Date.Format(time.RFC3339),
			Tags:        meta.Tags,
			Content:     meta.Body,
		})
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

// SelectAll returns a selection set containing every record id. It is
// the default applied when records first populate and nothing has been
// chosen yet; ids of since-removed records are harmless if they linger.
func SelectAll(records []Record) map[string]bool {
	selected := make(map[string]bool, len(records))
	for _, record := range records {
		selected[record.ID] = true
	}
	return selected
}
