// Package quality audits generated clusters against their source pages,
// flagging content that cannot be traced back to an origin. Findings are
// advisory: they are reported, never fatal.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"site2docs/models"
	"site2docs/pkg/document"
	"site2docs/pkg/graph"
)

// Finding is one detected grounding or sufficiency problem. PageID is nil
// for cluster-level findings and serializes as null.
type Finding struct {
	ClusterID string  `json:"cluster_id"`
	PageID    *string `json:"page_id"`
	Kind      string  `json:"kind"`
	Message   string  `json:"message"`
}

func pageIDRef(id string) *string { return &id }

// Finding kinds emitted by the guard.
const (
	KindEmptyCluster          = "empty_cluster"
	KindInsufficientContent   = "insufficient_content"
	KindMissingSourceURL      = "missing_source_url"
	KindLabelNotInContent     = "label_not_in_content"
	KindSummaryNotInSource    = "summary_not_in_source"
	KindInsufficientSummaries = "insufficient_summary_coverage"
)

// Report aggregates all findings of a build with inspection counters.
type Report struct {
	InspectedClusters int       `json:"inspected_clusters"`
	InspectedPages    int       `json:"inspected_pages"`
	Findings          []Finding `json:"findings"`
}

// labelTokenSplit separates cluster labels into checkable tokens.
var labelTokenSplit = regexp.MustCompile(`[\s\-/|,_]+`)

// Guard runs the grounding checks over finalized clusters.
type Guard struct {
	config models.QualityConfig
}

// NewGuard returns a guard using the given thresholds.
func NewGuard(config models.QualityConfig) *Guard {
	return &Guard{config: config}
}

// Inspect audits every cluster against its resolved pages and returns the
// aggregate report. Callers must resolve clusters to pages first; a cluster
// with no entry in resolvedPages is treated as empty.
func (g *Guard) Inspect(clusters []graph.Cluster, resolvedPages map[string][]models.ExtractedPage) Report {
	findings := make([]Finding, 0)
	inspectedPages := 0
	for _, cluster := range clusters {
		pages := resolvedPages[cluster.ClusterID]
		inspectedPages += len(pages)
		if len(pages) == 0 {
			findings = append(findings, Finding{
				ClusterID: cluster.ClusterID,
				Kind:      KindEmptyCluster,
				Message:   "cluster has no resolved pages",
			})
			continue
		}
		findings = append(findings, g.checkPageQuality(cluster, pages)...)
		findings = append(findings, g.checkLabelGrounding(cluster, pages)...)
		findings = append(findings, g.checkSummaryGrounding(cluster, pages)...)
	}
	return Report{
		InspectedClusters: len(clusters),
		InspectedPages:    inspectedPages,
		Findings:          findings,
	}
}

// checkPageQuality flags member pages with too little body text and, when
// required, pages lacking a source URL.
func (g *Guard) checkPageQuality(cluster graph.Cluster, pages []models.ExtractedPage) []Finding {
	var findings []Finding
	minChars := g.config.MinPageCharacters
	if minChars < 0 {
		minChars = 0
	}
	for _, page := range pages {
		length := len([]rune(strings.TrimSpace(page.Markdown)))
		if length < minChars {
			findings = append(findings, Finding{
				ClusterID: cluster.ClusterID,
				PageID:    pageIDRef(page.PageID),
				Kind:      KindInsufficientContent,
				Message:   fmt.Sprintf("page body has only %d characters, below the %d character threshold", length, minChars),
			})
		}
		if g.config.RequireSourceURL && page.URL == "" {
			findings = append(findings, Finding{
				ClusterID: cluster.ClusterID,
				PageID:    pageIDRef(page.PageID),
				Kind:      KindMissingSourceURL,
				Message:   "page has no source URL, so its origin cannot be traced",
			})
		}
	}
	return findings
}

// checkLabelGrounding verifies that every sufficiently long label token
// appears somewhere in the combined member bodies. Case-insensitive substring
// matching, no stemming.
func (g *Guard) checkLabelGrounding(cluster graph.Cluster, pages []models.ExtractedPage) []Finding {
	if cluster.Label == "" {
		return nil
	}
	var bodies []string
	for _, page := range pages {
		if page.Markdown != "" {
			bodies = append(bodies, strings.ToLower(page.Markdown))
		}
	}
	combined := strings.Join(bodies, "\n")
	if strings.TrimSpace(combined) == "" {
		return nil
	}
	minTokenLength := g.config.LabelMinTokenLength
	if minTokenLength < 1 {
		minTokenLength = 1
	}
	var findings []Finding
	for _, token := range labelTokenSplit.Split(strings.ToLower(cluster.Label), -1) {
		if len([]rune(token)) < minTokenLength {
			continue
		}
		if !strings.Contains(combined, token) {
			findings = append(findings, Finding{
				ClusterID: cluster.ClusterID,
				Kind:      KindLabelNotInContent,
				Message:   fmt.Sprintf("label token %q does not appear in any member page body", token),
			})
		}
	}
	return findings
}

// checkSummaryGrounding rebuilds the document summary snippets and verifies
// each appears verbatim in its source page (ellipsis trimmed for truncated
// snippets), plus flags builds that produced fewer snippets than expected.
func (g *Guard) checkSummaryGrounding(cluster graph.Cluster, pages []models.ExtractedPage) []Finding {
	limit := g.config.SummarySnippetLimit
	if limit < 1 {
		limit = 1
	}
	snippets := document.SummarySnippets(pages, limit)
	if len(snippets) == 0 {
		return nil
	}
	lookup := make(map[string]models.ExtractedPage, len(pages))
	for _, page := range pages {
		lookup[page.PageID] = page
	}
	var findings []Finding
	for _, snippet := range snippets {
		page, ok := lookup[snippet.PageID]
		if !ok || snippet.Text == "" {
			continue
		}
		verbatim := strings.TrimSuffix(snippet.Text, "...")
		if !strings.Contains(page.Markdown, verbatim) {
			findings = append(findings, Finding{
				ClusterID: cluster.ClusterID,
				PageID:    pageIDRef(snippet.PageID),
				Kind:      KindSummaryNotInSource,
				Message:   "summary snippet not found in the source page body",
			})
		}
	}
	expected := len(pages)
	if g.config.SummarySnippetLimit < expected {
		expected = g.config.SummarySnippetLimit
	}
	if len(snippets) < expected {
		findings = append(findings, Finding{
			ClusterID: cluster.ClusterID,
			Kind:      KindInsufficientSummaries,
			Message:   fmt.Sprintf("only %d of %d expected summary snippets could be derived", len(snippets), expected),
		})
	}
	return findings
}
