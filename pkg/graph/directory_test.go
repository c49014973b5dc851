package graph

import "testing"

func TestDirectoryKey(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		depth int
		want  string
	}{
		{
			name:  "archive marker with depth",
			path:  "site_backup/example.com/docs/guide/intro.html",
			depth: 2,
			want:  "example.com/docs/guide",
		},
		{
			name:  "archive marker host only",
			path:  "site_backup/example.com/docs/guide/intro.html",
			depth: 0,
			want:  "example.com",
		},
		{
			name:  "depth shallower than tree",
			path:  "site_backup/example.com/docs/guide/intro.html",
			depth: 1,
			want:  "example.com/docs",
		},
		{
			name:  "dotted host without marker",
			path:  "archives/blog.example.com/posts/001.html",
			depth: 1,
			want:  "blog.example.com/posts",
		},
		{
			name:  "page directly under host",
			path:  "site_backup/example.com/index.html",
			depth: 2,
			want:  "example.com/index.html",
		},
		{
			name:  "no host at all",
			path:  "pages/intro.html",
			depth: 2,
			want:  "pages",
		},
		{
			name:  "no host depth zero",
			path:  "pages/intro.html",
			depth: 0,
			want:  "root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirectoryKey(tt.path, tt.depth); got != tt.want {
				t.Errorf("DirectoryKey(%q, %d) = %q, want %q", tt.path, tt.depth, got, tt.want)
			}
		})
	}
}
