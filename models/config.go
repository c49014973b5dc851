// Package models defines the shared data structures and configuration for the
// site2docs pipeline.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultExpandTexts is the built-in list of button/link labels the renderer
// clicks to expand collapsed content before extraction.
var defaultExpandTexts = []string{
	"more",
	"show more",
	"show all",
	"read more",
	"load more",
	"view more",
	"see more",
	"expand",
	"open all",
	"ver mas",
	"ver más",
	"mostrar mas",
	"weiterlesen",
	"もっと見る",
	"さらに表示",
	"詳細",
	"詳細を見る",
	"すべて表示",
	"全て表示",
	"続きを読む",
	"続きを見る",
	"展開",
	"折りたたみ解除",
}

// defaultLabelStopWords is the Japanese stop-word set used when TF-IDF
// labeling detects Japanese text.
var defaultLabelStopWords = []string{
	"こと", "ため", "よう", "です", "ます", "する", "いる", "ある", "なる",
	"この", "その", "それ", "そして", "また", "など", "さらに", "しかし",
}

// defaultLabelTokenPattern tokenizes Latin words plus CJK runs for TF-IDF.
const defaultLabelTokenPattern = `[\w一-龥ぁ-ゖァ-ヺー]+`

// Duration wraps time.Duration so YAML configs can use strings like "45s".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var nanos int64
	if err := node.Decode(&nanos); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(nanos)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// RenderConfig controls headless rendering applied before extraction.
type RenderConfig struct {
	ExpandTexts          []string `yaml:"expand_texts"`
	RenderTimeout        Duration `yaml:"render_timeout"`
	PostRenderDelay      Duration `yaml:"post_render_delay"`
	ScrollPause          Duration `yaml:"scroll_pause"`
	MaxScrollIterations  int      `yaml:"max_scroll_iterations"`
	MaxRenderAttempts    int      `yaml:"max_render_attempts"`
	TimeoutBackoffFactor float64  `yaml:"timeout_backoff_factor"`
	MaxConcurrency       int      `yaml:"max_concurrency"`
	AllowPlainFallback   bool     `yaml:"allow_plain_fallback"`
	CacheDir             string   `yaml:"cache_dir"`
	CacheTTL             Duration `yaml:"cache_ttl"`
}

// ExtractConfig controls readable-content extraction.
type ExtractConfig struct {
	Readability          bool `yaml:"readability"`
	PreserveHeadings     bool `yaml:"preserve_headings"`
	FallbackPlainText    bool `yaml:"fallback_plain_text"`
	MinContentCharacters int  `yaml:"min_content_characters"`
	MaxWorkers           int  `yaml:"max_workers"`
}

// GraphConfig controls link-graph construction and cluster partitioning.
type GraphConfig struct {
	MinClusterSize         int      `yaml:"min_cluster_size"`
	LabelTFIDFTerms        int      `yaml:"label_tfidf_terms"`
	LabelTokenPattern      string   `yaml:"label_token_pattern"`
	LabelStopWords         []string `yaml:"label_stop_words"`
	URLPatternDepth        int      `yaml:"url_pattern_depth"`
	MaxNetworkClusterSize  int      `yaml:"max_network_cluster_size"`
	DirectoryClusterDepth  int      `yaml:"directory_cluster_depth"`
	AllowSingletonClusters bool     `yaml:"allow_singleton_clusters"`
	UseLinguaDetection     bool     `yaml:"use_lingua_detection"`
}

// QualityConfig controls the grounding guard.
type QualityConfig struct {
	EnableHallucinationChecks bool `yaml:"enable_hallucination_checks"`
	MinPageCharacters         int  `yaml:"min_page_characters"`
	RequireSourceURL          bool `yaml:"require_source_url"`
	LabelMinTokenLength       int  `yaml:"label_min_token_length"`
	SummarySnippetLimit       int  `yaml:"summary_snippet_limit"`
}

// BuildConfig bundles every stage of a single documentation build.
type BuildConfig struct {
	InputDir  string        `yaml:"input_dir"`
	OutputDir string        `yaml:"output_dir"`
	Render    RenderConfig  `yaml:"render"`
	Extract   ExtractConfig `yaml:"extract"`
	Graph     GraphConfig   `yaml:"graph"`
	Quality   QualityConfig `yaml:"quality"`
	CreatedAt time.Time     `yaml:"-"`
}

// DocsDir returns the directory the per-cluster Markdown files are written to.
func (c *BuildConfig) DocsDir() string { return filepath.Join(c.OutputDir, "docs") }

// LogsDir returns the directory build logs are written to.
func (c *BuildConfig) LogsDir() string { return filepath.Join(c.OutputDir, "logs") }

// DefaultBuildConfig returns a config with every stage at its defaults.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		Render: RenderConfig{
			ExpandTexts:          append([]string(nil), defaultExpandTexts...),
			RenderTimeout:        Duration(30 * time.Second),
			PostRenderDelay:      Duration(200 * time.Millisecond),
			ScrollPause:          Duration(200 * time.Millisecond),
			MaxScrollIterations:  20,
			MaxRenderAttempts:    2,
			TimeoutBackoffFactor: 1.6,
			MaxConcurrency:       2,
			CacheTTL:             Duration(24 * time.Hour),
		},
		Extract: ExtractConfig{
			Readability:          true,
			PreserveHeadings:     true,
			FallbackPlainText:    true,
			MinContentCharacters: 400,
			MaxWorkers:           4,
		},
		Graph: GraphConfig{
			MinClusterSize:        2,
			LabelTFIDFTerms:       5,
			LabelTokenPattern:     defaultLabelTokenPattern,
			LabelStopWords:        append([]string(nil), defaultLabelStopWords...),
			URLPatternDepth:       3,
			MaxNetworkClusterSize: 12,
			DirectoryClusterDepth: 2,
		},
		Quality: QualityConfig{
			EnableHallucinationChecks: true,
			MinPageCharacters:         80,
			LabelMinTokenLength:       4,
			SummarySnippetLimit:       3,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// LoadBuildConfig reads a YAML config file over the defaults.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	config := DefaultBuildConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// MergeExpandTexts appends extra expand labels to the defaults, deduplicating
// case-insensitively while preserving first-seen order.
func MergeExpandTexts(defaults, extras []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(extras))
	merged := make([]string, 0, len(defaults)+len(extras))
	for _, text := range append(append([]string(nil), defaults...), extras...) {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, text)
	}
	return merged
}

// Validate reports every invalid setting at once so callers can fail fast.
func (c *BuildConfig) Validate() []string {
	var errs []string
	if c.InputDir == "" {
		errs = append(errs, "input directory is required")
	}
	if c.OutputDir == "" {
		errs = append(errs, "output directory is required")
	}
	if c.Render.MaxConcurrency < 1 {
		errs = append(errs, "render concurrency must be at least 1")
	}
	if c.Render.MaxRenderAttempts < 1 {
		errs = append(errs, "max render attempts must be at least 1")
	}
	if c.Extract.MinContentCharacters < 0 {
		errs = append(errs, "min content characters must not be negative")
	}
	if c.Extract.MaxWorkers < 1 {
		errs = append(errs, "extract workers must be at least 1")
	}
	if c.Graph.MinClusterSize < 1 {
		errs = append(errs, "min cluster size must be at least 1")
	}
	if c.Graph.LabelTFIDFTerms < 1 {
		errs = append(errs, "label tfidf terms must be at least 1")
	}
	if c.Graph.URLPatternDepth < 0 {
		errs = append(errs, "url pattern depth must not be negative")
	}
	if c.Graph.MaxNetworkClusterSize < 1 {
		errs = append(errs, "max network cluster size must be at least 1")
	}
	if c.Graph.DirectoryClusterDepth < 0 {
		errs = append(errs, "directory cluster depth must not be negative")
	}
	if c.Quality.MinPageCharacters < 0 {
		errs = append(errs, "min page characters must not be negative")
	}
	if c.Quality.LabelMinTokenLength < 1 {
		errs = append(errs, "label min token length must be at least 1")
	}
	if c.Quality.SummarySnippetLimit < 1 {
		errs = append(errs, "summary snippet limit must be at least 1")
	}
	return errs
}
