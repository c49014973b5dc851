package models

import "testing"

func TestHasHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/docs", true},
		{"http://example.com/docs", true},
		{"file:///archive/page.html", false},
		{"", false},
	}
	for _, tt := range tests {
		page := ExtractedPage{URL: tt.url}
		if got := page.HasHTTPURL(); got != tt.want {
			t.Errorf("HasHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
