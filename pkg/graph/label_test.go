package graph

import (
	"reflect"
	"testing"

	"site2docs/models"
	"site2docs/pkg/langdetect"
)

func TestTFIDFScorerTopTerms(t *testing.T) {
	scorer, err := NewTFIDFScorer(`[\w]+`, 10)
	if err != nil {
		t.Fatalf("NewTFIDFScorer() error = %v", err)
	}

	docs := []string{
		"apple banana apple",
		"banana cherry",
	}
	got := scorer.TopTerms(docs, nil, 2)
	// apple is frequent and rare across documents, so it outranks banana,
	// which appears everywhere.
	want := []string{"apple", "banana"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms() = %v, want %v", got, want)
	}
}

func TestTFIDFScorerTiesBreakLexicographically(t *testing.T) {
	scorer, err := NewTFIDFScorer(`[\w]+`, 10)
	if err != nil {
		t.Fatalf("NewTFIDFScorer() error = %v", err)
	}

	got := scorer.TopTerms([]string{"zebra apple"}, nil, 2)
	want := []string{"apple", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms() = %v, want %v", got, want)
	}
}

func TestTFIDFScorerStopWords(t *testing.T) {
	scorer, err := NewTFIDFScorer(`[\w]+`, 10)
	if err != nil {
		t.Fatalf("NewTFIDFScorer() error = %v", err)
	}

	stop := func(token string) bool { return token == "the" }
	got := scorer.TopTerms([]string{"the the the parser"}, stop, 3)
	want := []string{"parser"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms() = %v, want %v", got, want)
	}
}

func TestTFIDFScorerEmptyDocs(t *testing.T) {
	scorer, err := NewTFIDFScorer(`[\w]+`, 10)
	if err != nil {
		t.Fatalf("NewTFIDFScorer() error = %v", err)
	}
	if got := scorer.TopTerms(nil, nil, 3); got != nil {
		t.Errorf("TopTerms(nil) = %v, want nil", got)
	}
}

func TestSelectVocabularyCapsByFrequency(t *testing.T) {
	totals := map[string]int{"rare": 1, "common": 9, "shared": 5}
	got := selectVocabulary(totals, 2)
	want := []string{"common", "shared"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectVocabulary() = %v, want %v", got, want)
	}
}

func TestInferLabelFromURLPrefix(t *testing.T) {
	tests := []struct {
		name  string
		pages []models.ExtractedPage
		want  string
	}{
		{
			name: "shared host and prefix",
			pages: []models.ExtractedPage{
				{URL: "https://example.com/docs/guide/intro"},
				{URL: "https://example.com/docs/guide/setup"},
			},
			want: "example.com/docs/guide",
		},
		{
			name: "shared host only",
			pages: []models.ExtractedPage{
				{URL: "https://example.com/docs/intro"},
				{URL: "https://example.com/blog/post"},
			},
			want: "example.com",
		},
		{
			name: "different hosts shared prefix",
			pages: []models.ExtractedPage{
				{URL: "https://a.example.com/docs/intro"},
				{URL: "https://b.example.com/docs/setup"},
			},
			want: "docs",
		},
		{
			name: "no http pages",
			pages: []models.ExtractedPage{
				{URL: ""},
				{URL: "file:///archive/page.html"},
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferLabelFromURLPrefix(tt.pages); got != tt.want {
				t.Errorf("inferLabelFromURLPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	long := "abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij"
	got := truncateLabel(long)
	if len([]rune(got)) != labelMaxLength {
		t.Errorf("truncated label has %d runes, want %d", len([]rune(got)), labelMaxLength)
	}
	if got := truncateLabel("short"); got != "short" {
		t.Errorf("truncateLabel(short) = %q", got)
	}
}

// fixedLanguage is a stub detector for exercising stop-word selection.
type fixedLanguage struct {
	language langdetect.Language
}

func (f fixedLanguage) Detect(sample string) langdetect.Language { return f.language }

func TestStopWordsFollowDetectedLanguage(t *testing.T) {
	config := models.GraphConfig{
		LabelTokenPattern: `[\w]+`,
		LabelTFIDFTerms:   5,
		LabelStopWords:    []string{"こと"},
		MinClusterSize:    2,
	}
	g, err := NewSiteGraph(config)
	if err != nil {
		t.Fatalf("NewSiteGraph() error = %v", err)
	}

	g.WithLanguageDetector(fixedLanguage{language: langdetect.English})
	stop := g.stopWordsFor([]string{"any sample"})
	if stop == nil {
		t.Fatal("expected English stop words, got nil")
	}
	if !stop("the") {
		t.Errorf("English stop set should exclude %q", "the")
	}
	if stop("parser") {
		t.Errorf("English stop set should keep %q", "parser")
	}

	g.WithLanguageDetector(fixedLanguage{language: langdetect.Japanese})
	stop = g.stopWordsFor([]string{"any sample"})
	if stop == nil {
		t.Fatal("expected Japanese stop words, got nil")
	}
	if !stop("こと") {
		t.Errorf("Japanese stop set should exclude %q", "こと")
	}

	g.WithLanguageDetector(fixedLanguage{language: langdetect.Unknown})
	if stop = g.stopWordsFor([]string{"1234"}); stop != nil {
		t.Errorf("unknown language should disable stop words, got non-nil")
	}
}
