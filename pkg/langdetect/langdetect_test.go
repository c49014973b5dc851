package langdetect

import (
	"strings"
	"testing"
)

func TestHeuristicDetector(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   Language
	}{
		{
			name:   "english prose",
			sample: "The parser reads the archive and extracts readable content.",
			want:   English,
		},
		{
			name:   "japanese prose",
			sample: "このページではクラスタリングの仕組みについて説明します。",
			want:   Japanese,
		},
		{
			name:   "mixed with enough japanese",
			sample: "Markdown 変換の詳細はこちらのページを参照してください。",
			want:   Japanese,
		},
		{
			name:   "digits only",
			sample: "1234 5678 9012",
			want:   Unknown,
		},
		{
			name:   "empty",
			sample: "",
			want:   Unknown,
		},
	}
	detector := HeuristicDetector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(tt.sample); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.sample, got, tt.want)
			}
		})
	}
}

func TestHeuristicDetectorBoundsSample(t *testing.T) {
	// A huge English body followed by Japanese beyond the sample window must
	// still classify as English.
	sample := strings.Repeat("english text ", 1000) + strings.Repeat("日本語", 100)
	if got := (HeuristicDetector{}).Detect(sample); got != English {
		t.Errorf("Detect() = %q, want %q", got, English)
	}
}
