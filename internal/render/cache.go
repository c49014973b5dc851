package render

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"site2docs/pkg/caching"
)

// CachedRenderer wraps another renderer with a file-based cache so unchanged
// archive pages are not re-rendered across builds. The cache key includes
// the source file's modification time, so edited archives re-render.
type CachedRenderer struct {
	inner Renderer
	cache *caching.Cache
}

// NewCachedRenderer wraps inner with the given cache.
func NewCachedRenderer(inner Renderer, cache *caching.Cache) *CachedRenderer {
	return &CachedRenderer{inner: inner, cache: cache}
}

func (r *CachedRenderer) Render(ctx context.Context, path string) (RenderedPage, error) {
	key := r.cacheKey(path)
	if data, ok := r.cache.Get(key); ok {
		var page RenderedPage
		if err := json.Unmarshal(data, &page); err == nil {
			return page, nil
		}
	}
	page, err := r.inner.Render(ctx, path)
	if err != nil {
		return RenderedPage{}, err
	}
	if data, err := json.Marshal(page); err == nil {
		// Cache write failures only cost a re-render next time.
		_ = r.cache.Set(key, data)
	}
	return page, nil
}

func (r *CachedRenderer) cacheKey(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}
