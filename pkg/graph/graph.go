// Package graph builds the site link graph and partitions pages into topical
// clusters with stable labels and slugs.
package graph

import (
	"site2docs/models"
)

// Adjacency maps a page id to the set of page ids it is linked with.
// Edges are undirected: a link in either direction connects both pages.
type Adjacency map[string]map[string]struct{}

// BuildAdjacency derives the link graph from explicit hyperlinks. Only links
// whose target URL exactly matches another page's canonical URL count; pages
// with an empty URL are never link targets but can still be link sources.
func BuildAdjacency(pages []models.ExtractedPage) Adjacency {
	urlToID := make(map[string]string, len(pages))
	for _, page := range pages {
		if page.URL != "" {
			urlToID[page.URL] = page.PageID
		}
	}
	adjacency := make(Adjacency)
	connect := func(a, b string) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[string]struct{})
		}
		adjacency[a][b] = struct{}{}
	}
	for _, page := range pages {
		for _, link := range page.Links {
			target, ok := urlToID[link]
			if !ok || target == page.PageID {
				continue
			}
			connect(page.PageID, target)
			connect(target, page.PageID)
		}
	}
	return adjacency
}
