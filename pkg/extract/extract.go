// Package extract turns rendered HTML into normalized ExtractedPage records:
// readable body content, Markdown conversion, canonical URL inference, and
// link/heading harvesting.
package extract

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"site2docs/models"
)

// Extractor produces article-grade content from rendered page HTML.
type Extractor struct {
	config models.ExtractConfig
}

// NewExtractor returns an extractor using the given thresholds.
func NewExtractor(config models.ExtractConfig) *Extractor {
	return &Extractor{config: config}
}

// Extract normalizes one rendered page. rawURL may be empty or a file URI;
// the canonical URL is inferred from the document and archive path when no
// http(s) URL is supplied.
func (e *Extractor) Extract(pageID, html, rawURL, filePath string, capturedAt time.Time) (models.ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ExtractedPage{}, fmt.Errorf("parse html for %s: %w", pageID, err)
	}

	canonicalURL := e.inferCanonicalURL(doc, rawURL, filePath)
	title, contentHTML, err := e.extractReadable(html, doc, canonicalURL)
	if err != nil {
		return models.ExtractedPage{}, fmt.Errorf("extract readable content for %s: %w", pageID, err)
	}

	contentDoc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return models.ExtractedPage{}, fmt.Errorf("parse extracted content for %s: %w", pageID, err)
	}

	return models.ExtractedPage{
		PageID:     pageID,
		URL:        canonicalURL,
		FilePath:   filePath,
		Title:      title,
		Markdown:   convertToMarkdown(contentDoc),
		Headings:   e.extractHeadings(contentDoc),
		Links:      extractLinks(doc, canonicalURL),
		CapturedAt: capturedAt,
	}, nil
}

// extractReadable runs go-readability over the page and falls back to the
// raw body when the distilled content is too thin and plain fallback is
// allowed.
func (e *Extractor) extractReadable(html string, doc *goquery.Document, canonicalURL string) (string, string, error) {
	if e.config.Readability {
		parsedURL, err := url.Parse(canonicalURL)
		if err != nil {
			parsedURL = &url.URL{}
		}
		parser := readability.NewParser()
		article, err := parser.Parse(strings.NewReader(html), parsedURL)
		if err == nil && e.hasEnoughContent(article.TextContent) {
			return strings.TrimSpace(article.Title), article.Content, nil
		}
	}
	if !e.config.FallbackPlainText {
		return "", "", fmt.Errorf("readable content extraction failed and plain-text fallback is disabled")
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return title, html, nil
	}
	bodyHTML, err := body.Html()
	if err != nil {
		return title, html, nil
	}
	return title, bodyHTML, nil
}

func (e *Extractor) hasEnoughContent(text string) bool {
	threshold := e.config.MinContentCharacters
	if threshold <= 0 {
		return true
	}
	return len([]rune(strings.TrimSpace(text))) >= threshold
}

// extractHeadings collects h1 through h3 text grouped by level.
func (e *Extractor) extractHeadings(doc *goquery.Document) []string {
	if !e.config.PreserveHeadings {
		return nil
	}
	var headings []string
	for _, level := range []string{"h1", "h2", "h3"} {
		doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			if text := normalizeText(s.Text()); text != "" {
				headings = append(headings, text)
			}
		})
	}
	return headings
}

// extractLinks harvests anchors from the full document, resolves them against
// the canonical URL, strips fragments, and drops self-links. The result is a
// sorted set.
func extractLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	seen := make(map[string]struct{})
	doc.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}
		resolved := resolveLink(base, href, baseURL)
		if resolved != "" {
			seen[resolved] = struct{}{}
		}
	})
	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

func resolveLink(base *url.URL, href, baseURL string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	resolved.Fragment = ""
	normalized := resolved.String()
	if normalized == "" || normalized == baseURL {
		return ""
	}
	return normalized
}
