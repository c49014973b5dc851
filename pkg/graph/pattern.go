package graph

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	uuidSegmentPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	digitRunPattern    = regexp.MustCompile(`\d+`)
	nonSlugRunPattern  = regexp.MustCompile(`[^a-z0-9{}-]+`)
)

// ExtractURLPattern normalizes an http(s) URL path into a structural pattern
// truncated to depth segments and prefixed by the host. UUID-shaped segments
// become {uuid}, numeric segments become {num}. Returns "" for non-HTTP URLs
// or when no usable segments remain.
func ExtractURLPattern(rawURL string, depth int) string {
	if rawURL == "" || depth <= 0 {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	var normalized []string
	for _, segment := range strings.Split(parsed.Path, "/") {
		if segment == "" {
			continue
		}
		cleaned := normalizeURLSegment(segment)
		if cleaned != "" {
			normalized = append(normalized, cleaned)
		}
	}
	if len(normalized) == 0 {
		return ""
	}
	actualDepth := depth
	if actualDepth > len(normalized) {
		actualDepth = len(normalized)
	}
	pattern := strings.Join(normalized[:actualDepth], "/")
	if parsed.Host != "" {
		return parsed.Host + "/" + pattern
	}
	return pattern
}

// normalizeURLSegment lowercases a path segment, strips extensions, and
// replaces identifier-like content with placeholders. Digit runs collapse to
// {num} only when the segment is digit-dense (>=3 digits and >=50% density).
func normalizeURLSegment(segment string) string {
	cleaned := strings.ToLower(strings.TrimSpace(segment))
	if cleaned == "" {
		return ""
	}
	if idx := strings.Index(cleaned, "."); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	if uuidSegmentPattern.MatchString(cleaned) {
		return "{uuid}"
	}
	digits, runes := 0, 0
	for _, r := range cleaned {
		runes++
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits > 0 && digits == runes {
		return "{num}"
	}
	if digits >= 3 && float64(digits)/float64(runes) >= 0.5 {
		cleaned = digitRunPattern.ReplaceAllString(cleaned, "{num}")
	}
	cleaned = nonSlugRunPattern.ReplaceAllString(cleaned, "-")
	return strings.Trim(cleaned, "-")
}
