// Package langdetect decides which stop-word set TF-IDF labeling should use.
package langdetect

import (
	"unicode"

	"github.com/pemistahl/lingua-go"
)

// Language is the coarse classification the labeler cares about.
type Language string

const (
	English  Language = "en"
	Japanese Language = "ja"
	Unknown  Language = ""
)

// Detector classifies a text sample. Implementations must be deterministic
// for a fixed sample.
type Detector interface {
	Detect(sample string) Language
}

// sampleLimit bounds how much text the heuristic detector inspects.
const sampleLimit = 5000

// Heuristic ratio thresholds. Tunable constants, not contractual values.
const (
	japaneseRatioThreshold = 0.2
	latinRatioThreshold    = 0.5
)

// HeuristicDetector classifies by character-class ratios over a bounded
// sample: Japanese when CJK characters make up at least 20% of the letters,
// English when Latin letters make up at least 50%.
type HeuristicDetector struct{}

func (HeuristicDetector) Detect(sample string) Language {
	runes := []rune(sample)
	if len(runes) > sampleLimit {
		runes = runes[:sampleLimit]
	}
	var japanese, latin, total int
	for _, r := range runes {
		if isJapanese(r) {
			japanese++
			total++
			continue
		}
		if unicode.IsLetter(r) {
			total++
			lower := unicode.ToLower(r)
			if lower >= 'a' && lower <= 'z' {
				latin++
			}
		}
	}
	if total == 0 {
		return Unknown
	}
	if float64(japanese)/float64(total) >= japaneseRatioThreshold {
		return Japanese
	}
	if float64(latin)/float64(total) >= latinRatioThreshold {
		return English
	}
	return Unknown
}

func isJapanese(r rune) bool {
	return (r >= '一' && r <= '龥') ||
		(r >= 'ぁ' && r <= 'ゖ') ||
		(r >= 'ァ' && r <= 'ヺ') ||
		r == 'ー'
}

// LinguaDetector classifies with the lingua-go statistical models, restricted
// to the two languages the labeler distinguishes.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds the English/Japanese model once; construction is
// expensive and the result is safe for concurrent use.
func NewLinguaDetector() *LinguaDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Japanese).
		Build()
	return &LinguaDetector{detector: detector}
}

func (d *LinguaDetector) Detect(sample string) Language {
	runes := []rune(sample)
	if len(runes) > sampleLimit {
		runes = runes[:sampleLimit]
	}
	language, ok := d.detector.DetectLanguageOf(string(runes))
	if !ok {
		return Unknown
	}
	switch language {
	case lingua.English:
		return English
	case lingua.Japanese:
		return Japanese
	}
	return Unknown
}
