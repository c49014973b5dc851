package build

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"site2docs/internal/render"
	"site2docs/models"
	"site2docs/pkg/caching"
)

// BuildAction is the entry point of the build command: it assembles the
// configuration from file and flags, validates it, runs the pipeline, and
// prints a summary JSON to stdout.
func BuildAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	startTime := time.Now()

	config, err := configFromContext(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if problems := config.Validate(); len(problems) > 0 {
		for _, problem := range problems {
			fmt.Fprintln(os.Stderr, "error: "+problem)
		}
		os.Exit(2)
	}
	if info, err := os.Stat(config.InputDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "error: input directory not found: %s\n", config.InputDir)
		os.Exit(2)
	}

	renderer := render.NewRenderer(config.Render, !c.Bool("no-browser"))
	if config.Render.CacheDir != "" {
		cache, err := caching.NewCache(config.Render.CacheDir, config.Render.CacheTTL.Std())
		if err != nil {
			logger.Error("failed to initialize render cache", "error", err)
			os.Exit(2)
		}
		renderer = render.NewCachedRenderer(renderer, cache)
	}
	builder, err := NewBuilder(config, renderer, logger)
	if err != nil {
		logger.Error("failed to initialize build", "error", err)
		os.Exit(2)
	}

	result, err := builder.Run(c.Context)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	summary := map[string]any{
		"pages":                 len(result.Pages),
		"clusters":              len(result.Clusters),
		"documents":             len(result.Documents),
		"output":                config.OutputDir,
		"render_fallback_pages": result.RenderFallbackPages,
		"elapsed_seconds":       time.Since(startTime).Seconds(),
	}
	if len(result.RenderFallbackReasons) > 0 {
		summary["render_fallback_reasons"] = result.RenderFallbackReasons
	}
	if result.Report != nil {
		summary["quality_findings"] = len(result.Report.Findings)
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Error("failed to marshal summary", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(data))
	return nil
}

// configFromContext layers CLI flags over the YAML config file (when given)
// over the built-in defaults.
func configFromContext(c *cli.Context) (*models.BuildConfig, error) {
	config := models.DefaultBuildConfig()
	if c.IsSet("config") {
		loaded, err := models.LoadBuildConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	config.InputDir = c.String("input")
	config.OutputDir = c.String("out")
	config.CreatedAt = time.Now().UTC()

	if c.IsSet("expand-texts") {
		extras := strings.Split(c.String("expand-texts"), ",")
		config.Render.ExpandTexts = models.MergeExpandTexts(config.Render.ExpandTexts, extras)
	}
	if c.IsSet("render-concurrency") {
		config.Render.MaxConcurrency = c.Int("render-concurrency")
	}
	if c.IsSet("render-timeout") {
		config.Render.RenderTimeout = models.Duration(c.Duration("render-timeout"))
	}
	if c.Bool("allow-render-fallback") {
		config.Render.AllowPlainFallback = true
	}
	if c.IsSet("render-cache-dir") {
		config.Render.CacheDir = c.String("render-cache-dir")
	}

	if c.IsSet("min-content-chars") {
		config.Extract.MinContentCharacters = c.Int("min-content-chars")
	}
	if c.IsSet("extract-concurrency") {
		config.Extract.MaxWorkers = c.Int("extract-concurrency")
	}
	if c.Bool("no-readability") {
		config.Extract.Readability = false
	}

	if c.IsSet("min-cluster-size") {
		config.Graph.MinClusterSize = c.Int("min-cluster-size")
	}
	if c.Bool("allow-singleton-clusters") {
		config.Graph.AllowSingletonClusters = true
	}
	if c.IsSet("max-network-cluster-size") {
		config.Graph.MaxNetworkClusterSize = c.Int("max-network-cluster-size")
	}
	if c.IsSet("directory-cluster-depth") {
		config.Graph.DirectoryClusterDepth = c.Int("directory-cluster-depth")
	}
	if c.IsSet("url-pattern-depth") {
		config.Graph.URLPatternDepth = c.Int("url-pattern-depth")
	}
	if c.IsSet("label-tfidf-terms") {
		config.Graph.LabelTFIDFTerms = c.Int("label-tfidf-terms")
	}
	if c.Bool("use-lingua") {
		config.Graph.UseLinguaDetection = true
	}

	if c.Bool("no-quality-checks") {
		config.Quality.EnableHallucinationChecks = false
	}
	if c.IsSet("min-page-chars") {
		config.Quality.MinPageCharacters = c.Int("min-page-chars")
	}
	if c.Bool("require-source-url") {
		config.Quality.RequireSourceURL = true
	}
	if c.IsSet("label-min-token-length") {
		config.Quality.LabelMinTokenLength = c.Int("label-min-token-length")
	}
	if c.IsSet("summary-snippet-limit") {
		config.Quality.SummarySnippetLimit = c.Int("summary-snippet-limit")
	}
	return config, nil
}
