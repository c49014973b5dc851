package document

import (
	"fmt"
	"sort"
	"strings"

	"site2docs/models"
	"site2docs/pkg/graph"
)

// ClusterValidationError reports clusters referencing page ids that do not
// resolve to any extracted page of the build. It indicates a partitioner bug
// or caller misuse rather than a data-quality problem, so it is fatal.
type ClusterValidationError struct {
	// Missing maps cluster_id to the page ids it references that could not
	// be resolved.
	Missing map[string][]string
}

func (e *ClusterValidationError) Error() string {
	clusterIDs := make([]string, 0, len(e.Missing))
	for clusterID := range e.Missing {
		clusterIDs = append(clusterIDs, clusterID)
	}
	sort.Strings(clusterIDs)
	pairs := make([]string, 0, len(clusterIDs))
	for _, clusterID := range clusterIDs {
		missing := append([]string(nil), e.Missing[clusterID]...)
		sort.Strings(missing)
		pairs = append(pairs, fmt.Sprintf("%s: [%s]", clusterID, strings.Join(missing, ", ")))
	}
	return "clusters reference unresolved page ids: " + strings.Join(pairs, "; ")
}

// ResolvePages maps each cluster to its member pages in page_id order. Any
// page id that does not resolve makes the whole call fail with a
// ClusterValidationError enumerating every missing pair.
func ResolvePages(clusters []graph.Cluster, pages []models.ExtractedPage) (map[string][]models.ExtractedPage, error) {
	lookup := make(map[string]models.ExtractedPage, len(pages))
	for _, page := range pages {
		lookup[page.PageID] = page
	}
	resolved := make(map[string][]models.ExtractedPage, len(clusters))
	missing := make(map[string][]string)
	for _, cluster := range clusters {
		members := make([]models.ExtractedPage, 0, len(cluster.PageIDs))
		for _, pageID := range cluster.PageIDs {
			page, ok := lookup[pageID]
			if !ok {
				missing[cluster.ClusterID] = append(missing[cluster.ClusterID], pageID)
				continue
			}
			members = append(members, page)
		}
		resolved[cluster.ClusterID] = members
	}
	if len(missing) > 0 {
		return nil, &ClusterValidationError{Missing: missing}
	}
	return resolved, nil
}
