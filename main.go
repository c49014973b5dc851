package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"site2docs/internal/build"
)

func main() {
	// Optional .env for local overrides; absence is not an error.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "site2docs",
		Usage: "convert an archived website into clustered Markdown documentation",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "render, extract, cluster, and write documents for an archive",
				Action: build.BuildAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "archive directory containing the saved site", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory for docs, manifest, and logs", Value: "site2docs-out"},
					&cli.StringFlag{Name: "config", Usage: "YAML config file layered under the flags"},

					&cli.StringFlag{Name: "expand-texts", Usage: "comma-separated extra button labels to click before capture"},
					&cli.IntFlag{Name: "render-concurrency", Usage: "parallel render workers"},
					&cli.DurationFlag{Name: "render-timeout", Usage: "per-page render deadline", Value: 30 * time.Second},
					&cli.BoolFlag{Name: "allow-render-fallback", Usage: "use the archive file as-is when rendering times out"},
					&cli.BoolFlag{Name: "no-browser", Usage: "skip headless rendering and read archive files directly"},
					&cli.StringFlag{Name: "render-cache-dir", Usage: "directory for cached render output, reused across builds"},

					&cli.IntFlag{Name: "min-content-chars", Usage: "minimum readable-content length before plain fallback"},
					&cli.IntFlag{Name: "extract-concurrency", Usage: "parallel extraction workers"},
					&cli.BoolFlag{Name: "no-readability", Usage: "disable readability distillation"},

					&cli.IntFlag{Name: "min-cluster-size", Usage: "minimum pages per accepted cluster"},
					&cli.BoolFlag{Name: "allow-singleton-clusters", Usage: "keep single-page clusters instead of merging them"},
					&cli.IntFlag{Name: "max-network-cluster-size", Usage: "size cap for link-graph communities"},
					&cli.IntFlag{Name: "directory-cluster-depth", Usage: "directory depth used for path-based grouping"},
					&cli.IntFlag{Name: "url-pattern-depth", Usage: "URL path depth used for pattern grouping"},
					&cli.IntFlag{Name: "label-tfidf-terms", Usage: "TF-IDF vocabulary size for cluster labels"},
					&cli.BoolFlag{Name: "use-lingua", Usage: "use lingua language detection for stop words"},

					&cli.BoolFlag{Name: "no-quality-checks", Usage: "skip the grounding report"},
					&cli.IntFlag{Name: "min-page-chars", Usage: "page body length below which a finding is raised"},
					&cli.BoolFlag{Name: "require-source-url", Usage: "flag pages without a source URL"},
					&cli.IntFlag{Name: "label-min-token-length", Usage: "minimum label token length checked for grounding"},
					&cli.IntFlag{Name: "summary-snippet-limit", Usage: "summary snippets per cluster"},

					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
					&cli.BoolFlag{Name: "verbose", Usage: "log debug detail"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
