package build

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"site2docs/internal/render"
	"site2docs/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func writeArchive(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create archive dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write archive file: %v", err)
		}
	}
}

func testBuildConfig(t *testing.T, inputDir string) *models.BuildConfig {
	t.Helper()
	config := models.DefaultBuildConfig()
	config.InputDir = inputDir
	config.OutputDir = t.TempDir()
	config.Extract.Readability = false
	config.Extract.MinContentCharacters = 0
	config.Quality.MinPageCharacters = 0
	return config
}

func pageHTML(title, body string) string {
	return "<html><head><title>" + title + "</title></head><body><h1>" + title + "</h1><p>" + body + "</p></body></html>"
}

func TestBuilderRun(t *testing.T) {
	inputDir := t.TempDir()
	writeArchive(t, inputDir, map[string]string{
		"site_backup/example.com/docs/guide/2023/overview.html": pageHTML("Overview", "Guide overview covering setup concepts and basics."),
		"site_backup/example.com/docs/guide/2024/intro.html":    pageHTML("Intro", "Guide introduction covering setup steps and basics."),
		"site_backup/example.com/docs/other/alpha.html":         pageHTML("Alpha", "Alpha reference material for advanced usage."),
	})
	config := testBuildConfig(t, inputDir)

	builder, err := NewBuilder(config, render.PlainRenderer{}, discardLogger())
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	result, err := builder.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(result.Pages))
	}
	// Page ids follow sorted source-path order.
	wantIDs := []string{"pg_001", "pg_002", "pg_003"}
	for i, page := range result.Pages {
		if page.PageID != wantIDs[i] {
			t.Errorf("page[%d].PageID = %q, want %q", i, page.PageID, wantIDs[i])
		}
	}
	if result.Pages[0].Title != "Overview" {
		t.Errorf("pg_001 title = %q, want Overview (sorted path order)", result.Pages[0].Title)
	}
	if result.Pages[0].URL != "https://example.com/docs/guide/2023/overview.html" {
		t.Errorf("pg_001 URL = %q", result.Pages[0].URL)
	}

	if len(result.Clusters) != 2 {
		t.Fatalf("got %d clusters, want 2: %+v", len(result.Clusters), result.Clusters)
	}
	covered := map[string]bool{}
	for _, cluster := range result.Clusters {
		for _, id := range cluster.PageIDs {
			if covered[id] {
				t.Errorf("page %s assigned to more than one cluster", id)
			}
			covered[id] = true
		}
	}
	if len(covered) != 3 {
		t.Errorf("clusters cover %d pages, want 3", len(covered))
	}

	if len(result.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(result.Documents))
	}
	for _, docPath := range result.Documents {
		if _, err := os.Stat(docPath); err != nil {
			t.Errorf("document not written: %v", err)
		}
		if filepath.Dir(docPath) != config.DocsDir() {
			t.Errorf("document %s outside docs dir %s", docPath, config.DocsDir())
		}
	}

	manifestPath := filepath.Join(config.OutputDir, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var manifestDoc map[string]any
	if err := json.Unmarshal(data, &manifestDoc); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if total, ok := manifestDoc["total_pages"].(float64); !ok || int(total) != 3 {
		t.Errorf("manifest total_pages = %v, want 3", manifestDoc["total_pages"])
	}

	if result.Report == nil {
		t.Fatal("quality report missing from result")
	}
	if _, err := os.Stat(filepath.Join(config.OutputDir, "report.json")); err != nil {
		t.Errorf("report not written: %v", err)
	}

	if result.RenderFallbackPages != 0 {
		t.Errorf("RenderFallbackPages = %d, want 0", result.RenderFallbackPages)
	}
}

func TestBuilderRunWritesStageLog(t *testing.T) {
	inputDir := t.TempDir()
	writeArchive(t, inputDir, map[string]string{
		"site_backup/example.com/a.html": pageHTML("A", "First page body text."),
		"site_backup/example.com/b.html": pageHTML("B", "Second page body text."),
	})
	config := testBuildConfig(t, inputDir)

	builder, err := NewBuilder(config, render.PlainRenderer{}, discardLogger())
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	if _, err := builder.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(config.LogsDir(), "build_summary.jsonl"))
	if err != nil {
		t.Fatalf("stage log not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		t.Fatalf("stage log has %d lines, want several", len(lines))
	}
	var last map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("stage log line is not valid JSON: %v", err)
	}
	if last["stage"] != "completed" {
		t.Errorf("final stage = %v, want completed", last["stage"])
	}
	if last["input_dir"] != config.InputDir {
		t.Errorf("stage log input_dir = %v, want %v", last["input_dir"], config.InputDir)
	}
}

func TestBuilderRunCountsRenderFallbacks(t *testing.T) {
	inputDir := t.TempDir()
	writeArchive(t, inputDir, map[string]string{
		"site_backup/example.com/a.html": pageHTML("A", "First page body text."),
		"site_backup/example.com/b.html": pageHTML("B", "Second page body text."),
	})
	config := testBuildConfig(t, inputDir)

	builder, err := NewBuilder(config, render.PlainRenderer{Reason: "browser_disabled"}, discardLogger())
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	result, err := builder.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.RenderFallbackPages != 2 {
		t.Errorf("RenderFallbackPages = %d, want 2", result.RenderFallbackPages)
	}
	if len(result.RenderFallbackReasons) != 1 || result.RenderFallbackReasons[0] != "browser_disabled" {
		t.Errorf("RenderFallbackReasons = %v", result.RenderFallbackReasons)
	}
}

func TestDiscoverHTMLFiles(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, root, map[string]string{
		"b/page.html":  "<html></html>",
		"a/page.htm":   "<html></html>",
		"a/styles.css": "body {}",
		"notes.txt":    "ignore",
	})

	paths, err := discoverHTMLFiles(root)
	if err != nil {
		t.Fatalf("discoverHTMLFiles() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}
	if !strings.HasSuffix(paths[0], filepath.FromSlash("a/page.htm")) ||
		!strings.HasSuffix(paths[1], filepath.FromSlash("b/page.html")) {
		t.Errorf("paths not sorted: %v", paths)
	}
}

func TestDiscoverHTMLFilesMissingDir(t *testing.T) {
	if _, err := discoverHTMLFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for a missing input directory")
	}
}
