// Package template expands the {{ date }}, {{ time }} and {{ day }}
// placeholders supported in instruction and context text.
package template

import (
	"regexp"
	"strings"
	"time"
)

// LongDateLayout renders a long date without a time component.
const LongDateLayout = "Monday, January 2, 2006"

// LongDateTimeLayout renders a long date with a 24-hour time.
const LongDateTimeLayout = "Monday, January 2, 2006 at 15:04"

var tokenPattern = regexp.MustCompile(`(?i)\{\{\s*(date|time|day)\s*\}\}`)

// Expand substitutes the recognized placeholders using now. Tokens are
// case-insensitive and tolerate arbitrary whitespace inside the braces.
// Unrecognized {{ ... }} tokens pass through unchanged. Output contains
// no braces for recognized tokens, so a second pass is a no-op.
func Expand(text string, now time.Time) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		token := strings.ToLower(strings.Trim(match, "{} \t"))
		switch token {
		case "date":
			return now.Format(LongDateLayout)
		case "time":
			return now.Format("15:04")
		case "day":
			return now.Format("Monday")
		}
		return match
	})
}
