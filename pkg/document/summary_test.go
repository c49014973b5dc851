package document

import (
	"strings"
	"testing"

	"site2docs/models"
)

func TestSummarySnippets(t *testing.T) {
	pages := []models.ExtractedPage{
		{PageID: "pg_001", Markdown: "# Heading\n\nFirst real line.\nSecond line."},
		{PageID: "pg_002", Markdown: "\n\n   \nIndented line here.  "},
		{PageID: "pg_003", Markdown: "# Only headings\n## Nothing else"},
		{PageID: "pg_004", Markdown: "Another body line."},
	}

	snippets := SummarySnippets(pages, 3)

	if len(snippets) != 3 {
		t.Fatalf("got %d snippets, want 3", len(snippets))
	}
	if snippets[0].PageID != "pg_001" || snippets[0].Text != "First real line." {
		t.Errorf("snippet[0] = %+v", snippets[0])
	}
	if snippets[1].PageID != "pg_002" || snippets[1].Text != "Indented line here." {
		t.Errorf("snippet[1] = %+v", snippets[1])
	}
	// pg_003 has no significant line and is skipped entirely.
	if snippets[2].PageID != "pg_004" {
		t.Errorf("snippet[2] came from %s, want pg_004", snippets[2].PageID)
	}
}

func TestSummarySnippetsLimit(t *testing.T) {
	pages := []models.ExtractedPage{
		{PageID: "pg_001", Markdown: "one"},
		{PageID: "pg_002", Markdown: "two"},
		{PageID: "pg_003", Markdown: "three"},
	}
	if got := SummarySnippets(pages, 2); len(got) != 2 {
		t.Errorf("limit 2 yielded %d snippets", len(got))
	}
	// A non-positive limit still yields one snippet.
	if got := SummarySnippets(pages, 0); len(got) != 1 {
		t.Errorf("limit 0 yielded %d snippets, want 1", len(got))
	}
}

func TestFirstSignificantLineTruncation(t *testing.T) {
	line := strings.Repeat("a", 200)
	got := firstSignificantLine(line)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long line not truncated with ellipsis: %q", got)
	}
	if len([]rune(got)) != snippetMaxLength {
		t.Errorf("truncated snippet has %d runes, want %d", len([]rune(got)), snippetMaxLength)
	}
	if !strings.HasPrefix(line, strings.TrimSuffix(got, "...")) {
		t.Errorf("truncated snippet is not a prefix of the source line")
	}

	if got := firstSignificantLine(""); got != "" {
		t.Errorf("firstSignificantLine(empty) = %q", got)
	}
}
