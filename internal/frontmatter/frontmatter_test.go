package frontmatter

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 8, 11, 9, 30, 0, 0, time.Local)

func TestParseRoundTrip(t *testing.T) {
	doc := "---\ntitle: Morning walk\ncategory: idea\ndate: 2025-08-10 07:15:00\ntags: outdoors, health\n---\nSaw a heron by the canal."

	res := Parse(doc, testNow)

	if !res.HasFrontMatter {
		t.Fatal("expected front matter to be detected")
	}
	if res.Title != "Morning walk" {
		t.Errorf("title = %q, want %q", res.Title, "Morning walk")
	}
	if res.Category != "idea" {
		t.Errorf("category = %q, want %q", res.Category, "idea")
	}
	want := time.Date(2025, 8, 10, 7, 15, 0, 0, time.Local)
	if !res.Date.Equal(want) {
		t.Errorf("date = %v, want %v", res.Date, want)
	}
	if !res.DateParsed {
		t.Error("expected DateParsed")
	}
	if len(res.Tags) != 2 || res.Tags[0] != "outdoors" || res.Tags[1] != "health" {
		t.Errorf("tags = %v, want [outdoors health]", res.Tags)
	}
	if res.Body != "Saw a heron by the canal." {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseNoFrontMatter(t *testing.T) {
	res := Parse("just text", testNow)

	if res.HasFrontMatter {
		t.Fatal("expected no front matter")
	}
	if res.Title != "" {
		t.Errorf("title = %q, want empty", res.Title)
	}
	if res.Category != DefaultCategory {
		t.Errorf("category = %q, want %q", res.Category, DefaultCategory)
	}
	if !res.Date.Equal(testNow) {
		t.Errorf("date = %v, want fallback %v", res.Date, testNow)
	}
	if res.Body != "just text" {
		t.Errorf("body = %q, want whole document", res.Body)
	}
}

func TestParseUnterminatedBlock(t *testing.T) {
	doc := "---\ntitle: Dangling\nno closing delimiter"
	res := Parse(doc, testNow)

	if res.HasFrontMatter {
		t.Fatal("unterminated block must not count as front matter")
	}
	if res.Body != doc {
		t.Errorf("body = %q, want whole document", res.Body)
	}
}

func TestParseMalformedDateIsNonFatal(t *testing.T) {
	doc := "---\ntitle: T\ndate: not-a-date\n---\nbody"
	res := Parse(doc, testNow)

	if res.DateParsed {
		t.Fatal("malformed date must not count as parsed")
	}
	if !res.Date.Equal(testNow) {
		t.Errorf("date = %v, want fallback %v", res.Date, testNow)
	}
	if res.Title != "T" {
		t.Errorf("title = %q, remaining fields must still parse", res.Title)
	}
}

func TestParseFirstOccurrenceWins(t *testing.T) {
	doc := "---\ntitle: First\ntitle: Second\n---\nbody"
	res := Parse(doc, testNow)

	if res.Title != "First" {
		t.Errorf("title = %q, want %q", res.Title, "First")
	}
}

func TestParseIgnoresUnknownLines(t *testing.T) {
	doc := "---\nauthor: someone\ntitle: Known\nmood: sunny\n---\nbody"
	res := Parse(doc, testNow)

	if res.Title != "Known" {
		t.Errorf("title = %q, want %q", res.Title, "Known")
	}
	if res.Body != "body" {
		t.Errorf("body = %q, want %q", res.Body, "body")
	}
}

func TestParseTagsTrimmedAndEmptiesDropped(t *testing.T) {
	doc := "---\ntags:  a , , b ,\n---\nbody"
	res := Parse(doc, testNow)

	if len(res.Tags) != 2 || res.Tags[0] != "a" || res.Tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", res.Tags)
	}
}

func TestParseStripsLeadingBlankLinesFromBody(t *testing.T) {
	doc := "---\ntitle: T\n---\n\n\nbody starts here\n\nsecond paragraph"
	res := Parse(doc, testNow)

	if res.Body != "body starts here\n\nsecond paragraph" {
		t.Errorf("body = %q", res.Body)
	}
}
