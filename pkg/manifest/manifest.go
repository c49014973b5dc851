package manifest

// Manifest is the machine-readable index of a build: every extracted page,
// every cluster, and a lightweight keyword overview so downstream consumers
// can navigate the corpus without reading full documents.
type Manifest struct {
	GeneratedAt       string         `json:"generated_at"`
	TotalPages        int            `json:"total_pages"`
	TotalClusters     int            `json:"total_clusters"`
	AggregateKeywords []string       `json:"aggregate_keywords"`
	Pages             []PageEntry    `json:"pages"`
	Clusters          []ClusterEntry `json:"clusters"`
}

// PageEntry is the manifest row for one extracted page.
type PageEntry struct {
	PageID    string `json:"page_id"`
	URL       string `json:"url"`
	FilePath  string `json:"file_path"`
	Title     string `json:"title"`
	ClusterID string `json:"cluster_id"`
	CreatedAt string `json:"created_at"`
}

// ClusterEntry is the manifest row for one cluster.
type ClusterEntry struct {
	ClusterID string   `json:"cluster_id"`
	Label     string   `json:"label"`
	Slug      string   `json:"slug"`
	PageIDs   []string `json:"page_ids"`
}
