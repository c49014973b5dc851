package graph

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"site2docs/models"
	"site2docs/pkg/analytics"
	"site2docs/pkg/langdetect"
)

// labelMaxLength caps fallback labels taken from page text.
const labelMaxLength = 50

// labelTermCount is how many top-weighted terms make up a text label.
const labelTermCount = 3

// StopWordFunc reports whether a token should be excluded from scoring.
type StopWordFunc func(token string) bool

// KeywordScorer ranks representative terms across a set of documents.
type KeywordScorer interface {
	TopTerms(docs []string, stop StopWordFunc, n int) []string
}

// TFIDFScorer scores terms by summed TF-IDF weight across documents, with
// the vocabulary restricted to the MaxFeatures most frequent terms.
type TFIDFScorer struct {
	TokenPattern *regexp.Regexp
	MaxFeatures  int
}

// NewTFIDFScorer compiles the token pattern; an empty pattern falls back to
// a word-character tokenizer.
func NewTFIDFScorer(tokenPattern string, maxFeatures int) (*TFIDFScorer, error) {
	if tokenPattern == "" {
		tokenPattern = `[\w]+`
	}
	re, err := regexp.Compile(tokenPattern)
	if err != nil {
		return nil, err
	}
	if maxFeatures < 1 {
		maxFeatures = 1
	}
	return &TFIDFScorer{TokenPattern: re, MaxFeatures: maxFeatures}, nil
}

// TopTerms returns up to n terms ranked by summed TF-IDF weight, ties broken
// lexicographically so labels are reproducible.
func (s *TFIDFScorer) TopTerms(docs []string, stop StopWordFunc, n int) []string {
	termFreqs := make([]map[string]int, 0, len(docs))
	totals := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		tf := make(map[string]int)
		for _, token := range s.TokenPattern.FindAllString(strings.ToLower(doc), -1) {
			if stop != nil && stop(token) {
				continue
			}
			tf[token]++
		}
		for term, count := range tf {
			totals[term] += count
			docFreq[term]++
		}
		termFreqs = append(termFreqs, tf)
	}
	if len(totals) == 0 {
		return nil
	}

	vocabulary := selectVocabulary(totals, s.MaxFeatures)

	type scored struct {
		term  string
		score float64
	}
	docCount := float64(len(termFreqs))
	ranked := make([]scored, 0, len(vocabulary))
	for _, term := range vocabulary {
		idf := math.Log((1+docCount)/(1+float64(docFreq[term]))) + 1
		total := 0.0
		for _, tf := range termFreqs {
			total += float64(tf[term]) * idf
		}
		ranked = append(ranked, scored{term: term, score: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].term < ranked[j].term
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	terms := make([]string, 0, n)
	for _, item := range ranked[:n] {
		terms = append(terms, item.term)
	}
	return terms
}

// selectVocabulary keeps the limit most frequent terms, ties broken
// lexicographically.
func selectVocabulary(totals map[string]int, limit int) []string {
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if limit < len(terms) {
		terms = terms[:limit]
	}
	return terms
}

// inferLabel derives a human-readable topic label for a group of pages:
// TF-IDF top terms, then the shared URL-path prefix, then the first line of
// the first page's body.
func (g *SiteGraph) inferLabel(pages []models.ExtractedPage) string {
	if len(pages) == 0 {
		return ""
	}
	if label := g.inferLabelFromText(pages); label != "" {
		return label
	}
	if label := inferLabelFromURLPrefix(pages); label != "" {
		return label
	}
	return truncateLabel(firstLine(pages[0].Markdown))
}

func (g *SiteGraph) inferLabelFromText(pages []models.ExtractedPage) string {
	var docs []string
	for _, page := range pages {
		if strings.TrimSpace(page.Markdown) != "" {
			docs = append(docs, page.Markdown)
		}
	}
	if len(docs) == 0 {
		return ""
	}
	if g.scorer != nil {
		stop := g.stopWordsFor(docs)
		if terms := g.scorer.TopTerms(docs, stop, labelTermCount); len(terms) > 0 {
			return strings.Join(terms, " ")
		}
	}
	return truncateLabel(firstLine(docs[0]))
}

// stopWordsFor picks the stop-word set matching the detected language of the
// combined documents.
func (g *SiteGraph) stopWordsFor(docs []string) StopWordFunc {
	sample := strings.Join(docs, "")
	switch g.detector.Detect(sample) {
	case langdetect.English:
		return analytics.IsStopword
	case langdetect.Japanese:
		stops := make(map[string]struct{}, len(g.config.LabelStopWords))
		for _, word := range g.config.LabelStopWords {
			stops[word] = struct{}{}
		}
		return func(token string) bool {
			_, ok := stops[token]
			return ok
		}
	}
	return nil
}

// inferLabelFromURLPrefix returns the longest common URL-path prefix of the
// group's HTTP pages, prefixed by the host when all members share one.
func inferLabelFromURLPrefix(pages []models.ExtractedPage) string {
	var parsed []*url.URL
	for _, page := range pages {
		if !page.HasHTTPURL() {
			continue
		}
		u, err := url.Parse(page.URL)
		if err != nil {
			continue
		}
		parsed = append(parsed, u)
	}
	if len(parsed) == 0 {
		return ""
	}

	host := parsed[0].Host
	for _, u := range parsed[1:] {
		if u.Host != host {
			host = ""
			break
		}
	}

	segments := make([][]string, 0, len(parsed))
	minLength := 0
	for _, u := range parsed {
		parts := splitPathSegments(u.Path)
		segments = append(segments, parts)
		if len(parts) > 0 && (minLength == 0 || len(parts) < minLength) {
			minLength = len(parts)
		}
	}
	var common []string
	for index := 0; index < minLength; index++ {
		candidate := segments[0][index]
		shared := true
		for _, parts := range segments {
			if len(parts) <= index || parts[index] != candidate {
				shared = false
				break
			}
		}
		if !shared {
			break
		}
		common = append(common, candidate)
	}

	switch {
	case host != "" && len(common) > 0:
		return host + "/" + strings.Join(common, "/")
	case host != "":
		return host
	case len(common) > 0:
		return strings.Join(common, "/")
	}
	return ""
}

func splitPathSegments(path string) []string {
	var parts []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return parts
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line != "" {
			return line
		}
	}
	return ""
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) > labelMaxLength {
		return string(runes[:labelMaxLength])
	}
	return label
}
