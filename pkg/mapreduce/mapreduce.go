// Package mapreduce aggregates per-page keyword frequencies into site-wide
// keyword rankings for the build manifest.
package mapreduce

import (
	"fmt"
	"sort"
	"strings"

	"site2docs/pkg/analytics"
)

// Map generates a word frequency map for a single page's markdown body.
func Map(content string) map[string]int {
	return analytics.WordFrequency(content)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)
	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}
	return finalResults
}

// isValidKeyword filters obviously broken tokens: unmatched delimiters,
// trailing separators, unmatched quotes. Technical terms like x_train pass.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}
	if strings.Contains(word, "(") && !strings.Contains(word, ")") {
		return false
	}
	if strings.Contains(word, "[") && !strings.Contains(word, "]") {
		return false
	}
	if strings.Contains(word, "{") && !strings.Contains(word, "}") {
		return false
	}
	if strings.Count(word, "\"")%2 != 0 {
		return false
	}
	if strings.Count(word, "'")%2 != 0 {
		return false
	}
	return true
}

// TopKeywords returns the top N keywords from aggregated word counts as
// "word:count" strings, ordered by count descending then word ascending.
func TopKeywords(wordCounts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}
	var ss []kv
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ss = append(ss, kv{k, v})
		}
	}
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})
	if len(ss) < n {
		n = len(ss)
	}
	keywords := make([]string, n)
	for i := 0; i < n; i++ {
		keywords[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return keywords
}
