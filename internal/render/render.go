// Package render turns archived HTML files into final post-JavaScript HTML.
// The production renderer drives headless Chrome; a plain reader serves as
// fallback when rendering is unavailable or times out.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"site2docs/models"
)

// Render modes recorded on each page.
const (
	ModeBrowser = "browser"
	ModePlain   = "plain"
)

// RenderedPage is the outcome of rendering one archived HTML file.
type RenderedPage struct {
	SourcePath     string
	FinalHTML      string
	FinalURL       string
	Mode           string
	FallbackReason string
}

// Renderer produces final HTML for an archived page file.
type Renderer interface {
	Render(ctx context.Context, path string) (RenderedPage, error)
}

// PlainRenderer reads archive files without executing JavaScript.
type PlainRenderer struct {
	// Reason is recorded as the fallback reason on every page, e.g.
	// "browser_disabled". Empty means plain reading was requested outright.
	Reason string
}

// Render reads the file as-is.
func (r PlainRenderer) Render(_ context.Context, path string) (RenderedPage, error) {
	html, err := readLocalFile(path)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		SourcePath:     path,
		FinalHTML:      html,
		FinalURL:       FileURI(path),
		Mode:           ModePlain,
		FallbackReason: r.Reason,
	}, nil
}

func readLocalFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read archive file %s: %w", path, err)
	}
	return string(data), nil
}

// FileURI converts a filesystem path to a file:// URI.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return "file://" + slashed
}

// NewRenderer selects the configured renderer: headless Chrome unless
// browserless operation is requested.
func NewRenderer(config models.RenderConfig, useBrowser bool) Renderer {
	if !useBrowser {
		return PlainRenderer{Reason: "browser_disabled"}
	}
	return NewChromeRenderer(config)
}
