package graph

import "testing"

func TestExtractURLPattern(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		depth int
		want  string
	}{
		{
			name:  "plain path",
			url:   "https://example.com/docs/guide/intro",
			depth: 3,
			want:  "example.com/docs/guide/intro",
		},
		{
			name:  "depth truncates",
			url:   "https://example.com/docs/guide/intro",
			depth: 2,
			want:  "example.com/docs/guide",
		},
		{
			name:  "numeric segment collapses",
			url:   "https://example.com/docs/guide/2024/intro",
			depth: 3,
			want:  "example.com/docs/guide/{num}",
		},
		{
			name:  "uuid segment collapses",
			url:   "https://example.com/items/0f8fad5b-d9cb-469f-a165-70867728950e",
			depth: 2,
			want:  "example.com/items/{uuid}",
		},
		{
			name:  "extension stripped",
			url:   "https://example.com/docs/intro.html",
			depth: 2,
			want:  "example.com/docs/intro",
		},
		{
			name:  "digit-dense segment",
			url:   "https://example.com/posts/post-20240115",
			depth: 2,
			want:  "example.com/posts/post-{num}",
		},
		{
			name:  "uppercase normalized",
			url:   "https://example.com/Docs/Guide",
			depth: 2,
			want:  "example.com/docs/guide",
		},
		{
			name:  "file scheme rejected",
			url:   "file:///archive/page.html",
			depth: 2,
			want:  "",
		},
		{
			name:  "empty url",
			url:   "",
			depth: 2,
			want:  "",
		},
		{
			name:  "no path segments",
			url:   "https://example.com/",
			depth: 2,
			want:  "",
		},
		{
			name:  "zero depth",
			url:   "https://example.com/docs",
			depth: 0,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractURLPattern(tt.url, tt.depth); got != tt.want {
				t.Errorf("ExtractURLPattern(%q, %d) = %q, want %q", tt.url, tt.depth, got, tt.want)
			}
		})
	}
}

// Pages sharing a deep pattern must keep sharing it at every shallower depth.
func TestExtractURLPatternDepthMonotonicity(t *testing.T) {
	urls := []string{
		"https://example.com/docs/guide/2024/intro",
		"https://example.com/docs/guide/2023/overview",
	}
	for depth := 3; depth >= 1; depth-- {
		a := ExtractURLPattern(urls[0], depth)
		b := ExtractURLPattern(urls[1], depth)
		if a != b {
			t.Errorf("depth %d: patterns diverge, %q vs %q", depth, a, b)
		}
	}
}

func TestNormalizeURLSegment(t *testing.T) {
	tests := []struct {
		segment string
		want    string
	}{
		{"2024", "{num}"},
		{"intro.html", "intro"},
		{"Hello World", "hello-world"},
		{"v2", "v2"},
		{"abc123def456", "abc{num}def{num}"},
		// Density counts runes, so multibyte characters do not dilute it.
		{"令和6年2024", "{num}-{num}"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeURLSegment(tt.segment); got != tt.want {
			t.Errorf("normalizeURLSegment(%q) = %q, want %q", tt.segment, got, tt.want)
		}
	}
}
