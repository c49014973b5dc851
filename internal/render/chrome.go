package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"site2docs/models"
)

// expandByTextScript clicks every button/link whose label contains one of the
// configured expand texts, surfacing content hidden behind "read more" style
// toggles before capture.
const expandByTextScript = `
(() => {
    const lowered = %s.map((text) => text.toLowerCase());
    if (!lowered.length) {
        return 0;
    }
    let count = 0;
    const elements = Array.from(document.querySelectorAll('button, [role="button"], a'));
    for (const element of elements) {
        const label = (element.innerText || element.getAttribute('aria-label') || '').toLowerCase();
        if (!label) {
            continue;
        }
        if (lowered.some((text) => label.includes(text))) {
            element.click();
            count += 1;
        }
    }
    document.querySelectorAll('details:not([open])').forEach((detail) => {
        detail.setAttribute('open', '');
    });
    return count;
})()
`

const scrollScript = `window.scrollBy(0, document.body.scrollHeight)`

// ChromeRenderer renders archived pages in headless Chrome via chromedp,
// retrying timeouts with a growing deadline and optionally falling back to
// the raw file.
type ChromeRenderer struct {
	config models.RenderConfig
	logger *slog.Logger
}

// NewChromeRenderer returns a renderer using the given timing limits.
func NewChromeRenderer(config models.RenderConfig) *ChromeRenderer {
	return &ChromeRenderer{config: config, logger: slog.Default()}
}

// Render navigates to the file, settles dynamic content, and captures the
// final HTML. Timeouts are retried up to MaxRenderAttempts with the deadline
// scaled by TimeoutBackoffFactor; when attempts are exhausted the raw file is
// used if AllowPlainFallback is set.
func (r *ChromeRenderer) Render(ctx context.Context, path string) (RenderedPage, error) {
	attempts := r.config.MaxRenderAttempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := r.config.RenderTimeout.Std()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		rendered, err := r.renderOnce(ctx, path, timeout)
		if err == nil {
			return rendered, nil
		}
		lastErr = err
		if !isTimeout(err) {
			return RenderedPage{}, err
		}
		if attempt < attempts {
			r.logger.Warn("render timed out, retrying",
				"path", path,
				"timeout", timeout.String(),
				"attempt", attempt,
				"max_attempts", attempts)
			timeout = NextTimeout(timeout, r.config.TimeoutBackoffFactor)
		}
	}
	if r.config.AllowPlainFallback {
		r.logger.Error("rendering failed, using archive file as-is", "path", path, "error", lastErr)
		return PlainRenderer{Reason: "render_timeout"}.Render(ctx, path)
	}
	return RenderedPage{}, fmt.Errorf("render %s after %d attempts: %w", path, attempts, lastErr)
}

func (r *ChromeRenderer) renderOnce(ctx context.Context, path string, timeout time.Duration) (RenderedPage, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, timeout)
		defer cancelTimeout()
	}

	var html, finalURL string
	actions := []chromedp.Action{
		chromedp.Navigate(FileURI(path)),
		chromedp.WaitReady("body"),
	}
	for i := 0; i < r.config.MaxScrollIterations; i++ {
		actions = append(actions,
			chromedp.Evaluate(scrollScript, nil),
			chromedp.Sleep(r.config.ScrollPause.Std()),
		)
	}
	if len(r.config.ExpandTexts) > 0 {
		actions = append(actions, chromedp.Evaluate(expandScript(r.config.ExpandTexts), nil))
	}
	if r.config.PostRenderDelay > 0 {
		actions = append(actions, chromedp.Sleep(r.config.PostRenderDelay.Std()))
	}
	actions = append(actions,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return RenderedPage{}, fmt.Errorf("browser rendering failed for %s: %w", path, err)
	}
	return RenderedPage{
		SourcePath: path,
		FinalHTML:  html,
		FinalURL:   finalURL,
		Mode:       ModeBrowser,
	}, nil
}

// expandScript binds the configured expand texts into the click script.
func expandScript(texts []string) string {
	encoded, err := json.Marshal(texts)
	if err != nil {
		encoded = []byte("[]")
	}
	return fmt.Sprintf(expandByTextScript, encoded)
}

// NextTimeout grows a render deadline by the backoff factor, never shrinking.
func NextTimeout(timeout time.Duration, factor float64) time.Duration {
	if factor < 1 {
		factor = 1
	}
	return time.Duration(float64(timeout) * factor)
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
