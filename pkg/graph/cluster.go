package graph

import (
	"fmt"
	"sort"

	"site2docs/models"
	"site2docs/pkg/langdetect"
)

// Cluster is a non-overlapping group of pages treated as one output document.
// PageIDs are lexicographically sorted and every id resolves to a page of the
// same build.
type Cluster struct {
	ClusterID string   `json:"cluster_id"`
	Label     string   `json:"label"`
	Slug      string   `json:"slug"`
	PageIDs   []string `json:"page_ids"`
}

// SiteGraph partitions extracted pages into clusters by cascading strategies:
// community detection over the link graph, URL-pattern grouping, directory
// grouping, and a small-group merge that guarantees total coverage.
type SiteGraph struct {
	config    models.GraphConfig
	community CommunityDetector
	scorer    KeywordScorer
	detector  langdetect.Detector
}

// NewSiteGraph wires the production capabilities: gonum modularity detection,
// the TF-IDF labeler, and heuristic (or lingua) language detection.
func NewSiteGraph(config models.GraphConfig) (*SiteGraph, error) {
	scorer, err := NewTFIDFScorer(config.LabelTokenPattern, config.LabelTFIDFTerms)
	if err != nil {
		return nil, fmt.Errorf("invalid label token pattern: %w", err)
	}
	var detector langdetect.Detector = langdetect.HeuristicDetector{}
	if config.UseLinguaDetection {
		detector = langdetect.NewLinguaDetector()
	}
	return &SiteGraph{
		config:    config,
		community: NewModularityDetector(),
		scorer:    scorer,
		detector:  detector,
	}, nil
}

// WithCommunityDetector replaces the community detection capability.
func (g *SiteGraph) WithCommunityDetector(d CommunityDetector) *SiteGraph {
	g.community = d
	return g
}

// WithKeywordScorer replaces the labeling capability. A nil scorer falls back
// to first-line labels.
func (g *SiteGraph) WithKeywordScorer(s KeywordScorer) *SiteGraph {
	g.scorer = s
	return g
}

// WithLanguageDetector replaces the stop-word language detection capability.
func (g *SiteGraph) WithLanguageDetector(d langdetect.Detector) *SiteGraph {
	g.detector = d
	return g
}

// Cluster partitions pages into clusters. For a fixed input and config the
// result is fully reproducible: membership, labels, and slugs.
func (g *SiteGraph) Cluster(pages []models.ExtractedPage) []Cluster {
	if len(pages) == 0 {
		return nil
	}

	groups := g.communityGroups(pages)
	if len(groups) > 0 {
		groups = g.refineLargeGroups(groups, pages)
	}
	if len(groups) == 0 {
		patternGroups, remaining := g.clusterByURLPattern(pages)
		if len(patternGroups) > 0 {
			groups = patternGroups
			if len(remaining) > 0 {
				groups = append(groups, g.clusterByDirectory(selectPages(pages, remaining))...)
			}
		} else {
			groups = g.clusterByDirectory(pages)
		}
	}

	if len(groups) > 0 {
		groups = append(groups, uncoveredSingletons(groups, pages)...)
		groups = g.mergeSmallGroups(groups, pages)
	}
	if len(groups) == 0 {
		// Total degradation: never drop a page.
		all := make([]string, 0, len(pages))
		for _, page := range pages {
			all = append(all, page.PageID)
		}
		groups = [][]string{all}
	}

	lookup := pageLookup(pages)
	usedSlugs := make(map[string]struct{}, len(groups))
	clusters := make([]Cluster, 0, len(groups))
	for idx, group := range groups {
		pageIDs := append([]string(nil), group...)
		sort.Strings(pageIDs)
		ordered := make([]models.ExtractedPage, 0, len(pageIDs))
		for _, id := range pageIDs {
			if page, ok := lookup[id]; ok {
				ordered = append(ordered, page)
			}
		}
		label := g.inferLabel(ordered)
		slug := ensureUniqueSlug(Slugify(label), usedSlugs, idx+1)
		if label == "" {
			label = fmt.Sprintf("Cluster %d", idx+1)
		}
		clusters = append(clusters, Cluster{
			ClusterID: "cl_" + slug,
			Label:     label,
			Slug:      slug,
			PageIDs:   pageIDs,
		})
	}
	return clusters
}

// communityGroups runs community detection and keeps communities of at least
// MinClusterSize members.
func (g *SiteGraph) communityGroups(pages []models.ExtractedPage) [][]string {
	adjacency := BuildAdjacency(pages)
	if len(adjacency) == 0 || g.community == nil {
		return nil
	}
	var groups [][]string
	for _, group := range g.community.Detect(adjacency) {
		if len(group) >= g.config.MinClusterSize {
			groups = append(groups, group)
		}
	}
	return groups
}

// refineLargeGroups re-partitions communities above the size cap using the
// URL-pattern strategy restricted to their members; unmatched members degrade
// to per-page singletons so the cap holds without guaranteeing cohesion.
func (g *SiteGraph) refineLargeGroups(groups [][]string, pages []models.ExtractedPage) [][]string {
	threshold := g.config.MaxNetworkClusterSize
	if g.config.MinClusterSize > threshold {
		threshold = g.config.MinClusterSize
	}
	if threshold <= 0 {
		return groups
	}
	lookup := pageLookup(pages)
	var refined [][]string
	for _, group := range groups {
		if len(group) <= threshold {
			refined = append(refined, group)
			continue
		}
		subset := make([]models.ExtractedPage, 0, len(group))
		for _, id := range group {
			if page, ok := lookup[id]; ok {
				subset = append(subset, page)
			}
		}
		if len(subset) == 0 {
			continue
		}
		patternGroups, remaining := g.clusterByURLPattern(subset)
		if len(patternGroups) > 0 {
			refined = append(refined, patternGroups...)
			for _, page := range subset {
				if _, left := remaining[page.PageID]; left {
					refined = append(refined, []string{page.PageID})
				}
			}
			continue
		}
		for _, id := range group {
			refined = append(refined, []string{id})
		}
	}
	return refined
}

// clusterByURLPattern tries pattern grouping from the configured depth down
// to 1, returning the first depth that yields a non-singleton group. If every
// depth yields only singletons, the deepest result is kept as a best effort.
func (g *SiteGraph) clusterByURLPattern(pages []models.ExtractedPage) ([][]string, map[string]struct{}) {
	maxDepth := g.config.URLPatternDepth
	if maxDepth < 1 {
		maxDepth = 1
	}
	var bestGroups [][]string
	var bestRemaining map[string]struct{}
	for depth := maxDepth; depth >= 1; depth-- {
		groups, remaining := g.clusterByURLPatternAtDepth(pages, depth)
		if len(groups) > 0 && !allSingletonGroups(groups) {
			return groups, remaining
		}
		if len(groups) > 0 && bestGroups == nil {
			bestGroups, bestRemaining = groups, remaining
		}
	}
	return bestGroups, bestRemaining
}

func (g *SiteGraph) clusterByURLPatternAtDepth(pages []models.ExtractedPage, depth int) ([][]string, map[string]struct{}) {
	buckets := make(map[string][]string)
	for _, page := range pages {
		pattern := ExtractURLPattern(page.URL, depth)
		if pattern == "" {
			continue
		}
		buckets[pattern] = append(buckets[pattern], page.PageID)
	}
	if len(buckets) == 0 {
		return nil, nil
	}
	patterns := sortedKeys(buckets)
	var groups [][]string
	assigned := make(map[string]struct{})
	for _, pattern := range patterns {
		members := buckets[pattern]
		if len(members) >= g.config.MinClusterSize {
			group := append([]string(nil), members...)
			sort.Strings(group)
			groups = append(groups, group)
			for _, id := range group {
				assigned[id] = struct{}{}
			}
		}
	}
	remaining := make(map[string]struct{})
	for _, page := range pages {
		if _, ok := assigned[page.PageID]; !ok {
			remaining[page.PageID] = struct{}{}
		}
	}
	return groups, remaining
}

// clusterByDirectory buckets pages by their archive directory key, keeping
// buckets of at least max(2, MinClusterSize) members.
func (g *SiteGraph) clusterByDirectory(pages []models.ExtractedPage) [][]string {
	depth := g.config.DirectoryClusterDepth
	if depth < 1 {
		depth = 1
	}
	buckets := make(map[string][]string)
	for _, page := range pages {
		key := DirectoryKey(page.FilePath, depth)
		buckets[key] = append(buckets[key], page.PageID)
	}
	threshold := g.smallGroupThreshold()
	var groups [][]string
	for _, key := range sortedKeys(buckets) {
		members := buckets[key]
		if len(members) >= threshold {
			group := append([]string(nil), members...)
			sort.Strings(group)
			groups = append(groups, group)
		}
	}
	return groups
}

// mergeSmallGroups pools undersized groups by host-level directory key and
// re-merges them; pools still under threshold collapse into one catch-all
// group so every page keeps a home.
func (g *SiteGraph) mergeSmallGroups(groups [][]string, pages []models.ExtractedPage) [][]string {
	threshold := g.smallGroupThreshold()
	if g.config.AllowSingletonClusters || threshold <= 1 {
		return groups
	}
	lookup := pageLookup(pages)
	var large [][]string
	var smallIDs []string
	for _, group := range groups {
		if len(group) >= threshold {
			large = append(large, group)
		} else {
			smallIDs = append(smallIDs, group...)
		}
	}
	if len(smallIDs) == 0 {
		return large
	}
	buckets := make(map[string][]string)
	for _, id := range smallIDs {
		page, ok := lookup[id]
		if !ok {
			continue
		}
		key := DirectoryKey(page.FilePath, 0)
		buckets[key] = append(buckets[key], id)
	}
	var merged [][]string
	var leftovers []string
	for _, key := range sortedKeys(buckets) {
		members := buckets[key]
		if len(members) >= threshold {
			merged = append(merged, members)
		} else {
			leftovers = append(leftovers, members...)
		}
	}
	if len(leftovers) > 0 {
		merged = append(merged, leftovers)
	}
	return append(large, merged...)
}

func (g *SiteGraph) smallGroupThreshold() int {
	if g.config.MinClusterSize > 2 {
		return g.config.MinClusterSize
	}
	return 2
}

// uncoveredSingletons returns a singleton group for every page absent from
// the given groups, in input order.
func uncoveredSingletons(groups [][]string, pages []models.ExtractedPage) [][]string {
	covered := make(map[string]struct{})
	for _, group := range groups {
		for _, id := range group {
			covered[id] = struct{}{}
		}
	}
	var singletons [][]string
	for _, page := range pages {
		if _, ok := covered[page.PageID]; !ok {
			singletons = append(singletons, []string{page.PageID})
		}
	}
	return singletons
}

func allSingletonGroups(groups [][]string) bool {
	for _, group := range groups {
		if len(group) != 1 {
			return false
		}
	}
	return true
}

// selectPages keeps the pages whose ids appear in wanted, preserving input
// order.
func selectPages(pages []models.ExtractedPage, wanted map[string]struct{}) []models.ExtractedPage {
	selected := make([]models.ExtractedPage, 0, len(wanted))
	for _, page := range pages {
		if _, ok := wanted[page.PageID]; ok {
			selected = append(selected, page)
		}
	}
	return selected
}

func pageLookup(pages []models.ExtractedPage) map[string]models.ExtractedPage {
	lookup := make(map[string]models.ExtractedPage, len(pages))
	for _, page := range pages {
		lookup[page.PageID] = page
	}
	return lookup
}

func sortedKeys(buckets map[string][]string) []string {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
