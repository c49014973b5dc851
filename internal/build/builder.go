// Package build orchestrates the full pipeline: discover archived HTML,
// render, extract, cluster, and write documents, manifest, and quality
// report.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"site2docs/internal/render"
	"site2docs/models"
	"site2docs/pkg/document"
	"site2docs/pkg/extract"
	"site2docs/pkg/graph"
	"site2docs/pkg/manifest"
	"site2docs/pkg/quality"
)

// Result is the outcome of one build.
type Result struct {
	Pages                 []models.ExtractedPage
	Clusters              []graph.Cluster
	Report                *quality.Report
	Documents             []string
	RenderFallbackPages   int
	RenderFallbackReasons []string
}

// Builder wires the pipeline stages together.
type Builder struct {
	config    *models.BuildConfig
	renderer  render.Renderer
	extractor *extract.Extractor
	graph     *graph.SiteGraph
	logger    *slog.Logger
}

// NewBuilder constructs a builder from the config and an injected renderer.
func NewBuilder(config *models.BuildConfig, renderer render.Renderer, logger *slog.Logger) (*Builder, error) {
	siteGraph, err := graph.NewSiteGraph(config.Graph)
	if err != nil {
		return nil, fmt.Errorf("configure clustering: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		config:    config,
		renderer:  renderer,
		extractor: extract.NewExtractor(config.Extract),
		graph:     siteGraph,
		logger:    logger,
	}, nil
}

// Run executes the pipeline end to end and writes all artifacts.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	stages, err := newStageLogger(
		filepath.Join(b.config.LogsDir(), "build_summary.jsonl"),
		b.config.InputDir, b.config.OutputDir, b.config.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("prepare build log: %w", err)
	}

	paths, err := discoverHTMLFiles(b.config.InputDir)
	if err != nil {
		return nil, err
	}
	stages.log("discovered", map[string]any{"total_html": len(paths)})
	b.logger.Info("discovered archive pages", "count", len(paths))

	rendered, err := renderAll(ctx, b.logger, b.renderer, paths, b.config.Render.MaxConcurrency, func(done int, path string) {
		stages.log("rendering", map[string]any{"total_html": len(paths), "rendered": done, "last_file": path})
	})
	if err != nil {
		return nil, fmt.Errorf("render stage: %w", err)
	}
	stages.log("rendered", map[string]any{"total_html": len(paths), "rendered": len(rendered)})

	jobs := make([]extractJob, len(rendered))
	for index, page := range rendered {
		jobs[index] = extractJob{
			Index:      index,
			PageID:     fmt.Sprintf("pg_%03d", index+1),
			Rendered:   page,
			CapturedAt: b.inferCapturedAt(page.SourcePath),
		}
	}
	pages, err := extractAll(b.logger, b.extractor, jobs, b.config.Extract.MaxWorkers, func(done int, path string) {
		stages.log("extracting", map[string]any{"total_html": len(paths), "extracted": done, "last_file": path})
	})
	if err != nil {
		return nil, fmt.Errorf("extract stage: %w", err)
	}

	clusters := b.graph.Cluster(pages)
	b.logger.Info("clustering finished", "clusters", len(clusters))
	stages.log("clustering", map[string]any{"extracted": len(pages), "clusters": len(clusters)})

	resolved, err := document.ResolvePages(clusters, pages)
	if err != nil {
		return nil, err
	}

	documents, err := b.writeDocuments(clusters, pages, stages)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(b.config.OutputDir, "manifest.json")
	if err := manifest.Write(manifestPath, manifest.Build(pages, clusters, b.config.CreatedAt)); err != nil {
		return nil, err
	}
	b.logger.Info("manifest written", "path", manifestPath)

	result := &Result{Pages: pages, Clusters: clusters, Documents: documents}
	for _, page := range rendered {
		if page.Mode == render.ModePlain && page.FallbackReason != "" {
			result.RenderFallbackPages++
			if !contains(result.RenderFallbackReasons, page.FallbackReason) {
				result.RenderFallbackReasons = append(result.RenderFallbackReasons, page.FallbackReason)
			}
		}
	}

	if b.config.Quality.EnableHallucinationChecks {
		report := quality.NewGuard(b.config.Quality).Inspect(clusters, resolved)
		reportPath := filepath.Join(b.config.OutputDir, "report.json")
		if err := quality.WriteReport(reportPath, report); err != nil {
			return nil, err
		}
		result.Report = &report
		b.logger.Info("quality report written", "path", reportPath, "findings", len(report.Findings))
	}

	stages.log("completed", map[string]any{
		"pages":     len(pages),
		"clusters":  len(clusters),
		"documents": len(documents),
		"manifest":  manifestPath,
	})
	return result, nil
}

func (b *Builder) writeDocuments(clusters []graph.Cluster, pages []models.ExtractedPage, stages *stageLogger) ([]string, error) {
	documents := make([]string, 0, len(clusters))
	for index, cluster := range clusters {
		name := cluster.Slug
		if name == "" {
			name = cluster.ClusterID
		}
		docPath := filepath.Join(b.config.DocsDir(), name+".md")
		markdown := document.BuildMarkdown(cluster, pages, b.config.CreatedAt)
		if err := document.WriteMarkdown(docPath, markdown); err != nil {
			return nil, err
		}
		documents = append(documents, docPath)
		b.logger.Info("document written", "index", index+1, "total", len(clusters), "path", docPath)
		stages.log("writing", map[string]any{
			"clusters":        len(clusters),
			"documents_count": len(documents),
			"last_document":   docPath,
		})
	}
	return documents, nil
}

// inferCapturedAt uses the archive file's modification time, falling back to
// the build creation time when the file cannot be stat'ed.
func (b *Builder) inferCapturedAt(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return b.config.CreatedAt
	}
	return info.ModTime().UTC()
}

// discoverHTMLFiles walks the archive and returns every .html/.htm file in
// sorted path order, which fixes page-id assignment.
func discoverHTMLFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan input directory %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
