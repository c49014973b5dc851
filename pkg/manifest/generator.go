package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"site2docs/models"
	"site2docs/pkg/graph"
	"site2docs/pkg/mapreduce"
)

const timestampFormat = "2006-01-02T15:04:05-0700"

// aggregateKeywordLimit caps the manifest's site-wide keyword overview.
const aggregateKeywordLimit = 25

// Build assembles the manifest for a finished build. Page rows keep input
// order; each page's cluster_id is the first cluster (in output order) that
// contains it, or empty if uncovered.
func Build(pages []models.ExtractedPage, clusters []graph.Cluster, createdAt time.Time) Manifest {
	membership := make(map[string]string, len(pages))
	for _, cluster := range clusters {
		for _, pageID := range cluster.PageIDs {
			if _, ok := membership[pageID]; !ok {
				membership[pageID] = cluster.ClusterID
			}
		}
	}

	pageEntries := make([]PageEntry, 0, len(pages))
	intermediate := make([]map[string]int, 0, len(pages))
	for _, page := range pages {
		pageEntries = append(pageEntries, PageEntry{
			PageID:    page.PageID,
			URL:       page.URL,
			FilePath:  filepath.ToSlash(page.FilePath),
			Title:     page.Title,
			ClusterID: membership[page.PageID],
			CreatedAt: page.CapturedAt.Format(timestampFormat),
		})
		intermediate = append(intermediate, mapreduce.Map(page.Markdown))
	}

	clusterEntries := make([]ClusterEntry, 0, len(clusters))
	for _, cluster := range clusters {
		clusterEntries = append(clusterEntries, ClusterEntry{
			ClusterID: cluster.ClusterID,
			Label:     cluster.Label,
			Slug:      cluster.Slug,
			PageIDs:   append([]string(nil), cluster.PageIDs...),
		})
	}

	return Manifest{
		GeneratedAt:       createdAt.Format(timestampFormat),
		TotalPages:        len(pages),
		TotalClusters:     len(clusters),
		AggregateKeywords: mapreduce.TopKeywords(mapreduce.Reduce(intermediate), aggregateKeywordLimit),
		Pages:             pageEntries,
		Clusters:          clusterEntries,
	}
}

// Write serializes the manifest as indented JSON, creating parent
// directories as needed.
func Write(path string, m Manifest) error {
	if m.AggregateKeywords == nil {
		m.AggregateKeywords = []string{}
	}
	if m.Pages == nil {
		m.Pages = []PageEntry{}
	}
	if m.Clusters == nil {
		m.Clusters = []ClusterEntry{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}
