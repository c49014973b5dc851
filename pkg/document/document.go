// Package document assembles per-cluster Markdown documents and the summary
// snippets shared with the grounding checks.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"site2docs/models"
	"site2docs/pkg/graph"
)

const timestampFormat = "2006-01-02T15:04:05-0700"

// BuildMarkdown assembles the Markdown document for a cluster from its
// resolved member pages: YAML frontmatter, an overview of summary snippets,
// a table of contents from page headings, then one cited section per page.
func BuildMarkdown(cluster graph.Cluster, pages []models.ExtractedPage, createdAt time.Time) string {
	lookup := make(map[string]models.ExtractedPage, len(pages))
	for _, page := range pages {
		lookup[page.PageID] = page
	}
	ordered := make([]models.ExtractedPage, 0, len(cluster.PageIDs))
	for _, pageID := range cluster.PageIDs {
		if page, ok := lookup[pageID]; ok {
			ordered = append(ordered, page)
		}
	}

	var lines []string
	lines = append(lines,
		"---",
		"doc_id: doc_"+cluster.Slug,
		"cluster_label: "+cluster.Label,
		"cluster_slug: "+cluster.Slug,
		"source_urls:",
	)
	for _, page := range ordered {
		if page.URL != "" {
			lines = append(lines, "  - "+page.URL)
		}
	}
	lines = append(lines,
		"created_at: "+createdAt.Format(timestampFormat),
		"pages: ["+strings.Join(cluster.PageIDs, ", ")+"]",
		"---",
		"# "+cluster.Label,
		"",
	)

	snippets := SummarySnippets(ordered, overviewSnippetLimit)
	if len(snippets) > 0 {
		lines = append(lines, "## Overview")
		for _, snippet := range snippets {
			lines = append(lines, "- "+snippet.Text)
		}
		lines = append(lines, "")
	}

	if anyHeadings(ordered) {
		lines = append(lines, "## Contents")
		for _, page := range ordered {
			for _, heading := range page.Headings {
				lines = append(lines, "- "+heading)
			}
		}
		lines = append(lines, "")
	}

	for _, page := range ordered {
		title := page.Title
		if title == "" {
			title = page.PageID
		}
		source := page.URL
		if source == "" {
			source = filepath.ToSlash(page.FilePath)
		}
		lines = append(lines,
			"## "+title,
			"> Source URL: "+source,
			"> File path: "+filepath.ToSlash(page.FilePath),
			"> Captured: "+page.CapturedAt.Format("2006-01-02 MST"),
			"",
			strings.TrimSpace(page.Markdown),
			"",
		)
	}

	return strings.Join(lines, "\n")
}

// overviewSnippetLimit caps the Overview section of a document.
const overviewSnippetLimit = 3

// WriteMarkdown writes a document, creating parent directories as needed.
func WriteMarkdown(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}
	return nil
}

func anyHeadings(pages []models.ExtractedPage) bool {
	for _, page := range pages {
		if len(page.Headings) > 0 {
			return true
		}
	}
	return false
}
