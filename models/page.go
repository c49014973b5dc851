package models

import (
	"strings"
	"time"
)

// ExtractedPage is the normalized representation of one archived HTML page.
// PageID is assigned sequentially (pg_001, pg_002, ...) in source-path order
// and is unique within a build. URL, when non-empty, is fragment-free and is
// either an http(s) URL or a file URI.
type ExtractedPage struct {
	PageID     string    `json:"page_id" yaml:"page_id"`
	URL        string    `json:"url" yaml:"url"`
	FilePath   string    `json:"file_path" yaml:"file_path"`
	Title      string    `json:"title" yaml:"title"`
	Markdown   string    `json:"markdown" yaml:"markdown"`
	Headings   []string  `json:"headings" yaml:"headings"`
	Links      []string  `json:"links" yaml:"links"`
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`
}

// HasHTTPURL reports whether the page resolved to a real web address rather
// than a file URI.
func (p *ExtractedPage) HasHTTPURL() bool {
	return strings.HasPrefix(p.URL, "http://") || strings.HasPrefix(p.URL, "https://")
}
