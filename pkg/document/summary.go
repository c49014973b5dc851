package document

import (
	"strings"

	"site2docs/models"
)

// snippetMaxLength is the display length at which summary snippets are cut.
const snippetMaxLength = 120

// Snippet is one representative line of a page body, paired with the page it
// came from so grounding checks can trace it back.
type Snippet struct {
	PageID string
	Text   string
}

// SummarySnippets derives up to limit representative snippets from the given
// pages, one per page in order: the first non-blank, non-heading line,
// truncated with an ellipsis when longer than 120 characters. The same
// selection feeds both the document overview and the grounding guard.
func SummarySnippets(pages []models.ExtractedPage, limit int) []Snippet {
	if limit < 1 {
		limit = 1
	}
	var snippets []Snippet
	for _, page := range pages {
		text := firstSignificantLine(page.Markdown)
		if text == "" {
			continue
		}
		snippets = append(snippets, Snippet{PageID: page.PageID, Text: text})
		if len(snippets) >= limit {
			break
		}
	}
	return snippets
}

// firstSignificantLine returns the first trimmed line that is neither blank
// nor a markdown heading.
func firstSignificantLine(markdown string) string {
	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		runes := []rune(line)
		if len(runes) > snippetMaxLength {
			return string(runes[:snippetMaxLength-3]) + "..."
		}
		return line
	}
	return ""
}
