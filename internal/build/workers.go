package build

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"site2docs/internal/render"
	"site2docs/models"
	"site2docs/pkg/extract"
)

type renderJob struct {
	Index int
	Path  string
}

type renderResult struct {
	Index int
	Page  render.RenderedPage
	Err   error
}

// renderAll renders every path through a bounded worker pool, preserving
// input order in the returned slice.
func renderAll(ctx context.Context, logger *slog.Logger, renderer render.Renderer, paths []string, workers int, progress func(done int, path string)) ([]render.RenderedPage, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	jobs := make(chan renderJob, len(paths))
	results := make(chan renderResult, len(paths))
	var wg sync.WaitGroup

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				logger.Info("rendering page", "worker_id", id, "path", job.Path)
				page, err := renderer.Render(ctx, job.Path)
				results <- renderResult{Index: job.Index, Page: page, Err: err}
			}
		}(w)
	}

	for index, path := range paths {
		jobs <- renderJob{Index: index, Path: path}
	}
	close(jobs)
	wg.Wait()
	close(results)

	rendered := make([]render.RenderedPage, len(paths))
	var firstErr error
	done := 0
	for result := range results {
		if result.Err != nil {
			logger.Error("rendering failed", "path", paths[result.Index], "error", result.Err)
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}
		rendered[result.Index] = result.Page
		done++
		if progress != nil {
			progress(done, result.Page.SourcePath)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return rendered, nil
}

type extractJob struct {
	Index      int
	PageID     string
	Rendered   render.RenderedPage
	CapturedAt time.Time
}

type extractResult struct {
	Index int
	Page  models.ExtractedPage
	Err   error
}

// extractAll extracts every rendered page through a bounded worker pool,
// preserving input order.
func extractAll(logger *slog.Logger, extractor *extract.Extractor, jobsIn []extractJob, workers int, progress func(done int, path string)) ([]models.ExtractedPage, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobsIn) {
		workers = len(jobsIn)
	}
	jobs := make(chan extractJob, len(jobsIn))
	results := make(chan extractResult, len(jobsIn))
	var wg sync.WaitGroup

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				logger.Info("extracting page", "worker_id", id, "page_id", job.PageID, "path", job.Rendered.SourcePath)
				page, err := extractor.Extract(job.PageID, job.Rendered.FinalHTML, job.Rendered.FinalURL, job.Rendered.SourcePath, job.CapturedAt)
				results <- extractResult{Index: job.Index, Page: page, Err: err}
			}
		}(w)
	}

	for _, job := range jobsIn {
		jobs <- job
	}
	close(jobs)
	wg.Wait()
	close(results)

	pages := make([]models.ExtractedPage, len(jobsIn))
	var firstErr error
	done := 0
	for result := range results {
		if result.Err != nil {
			logger.Error("extraction failed", "error", result.Err)
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}
		pages[result.Index] = result.Page
		done++
		if progress != nil {
			progress(done, result.Page.FilePath)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return pages, nil
}
