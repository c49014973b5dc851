package graph

import (
	"fmt"
	"regexp"
	"strings"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify reduces a label to a filesystem/URL-safe slug. Labels with no
// ASCII-alphanumeric content reduce to "".
func Slugify(label string) string {
	slug := slugStripPattern.ReplaceAllString(strings.ToLower(label), "-")
	return strings.Trim(slug, "-")
}

// ensureUniqueSlug resolves slug collisions within a build by appending a
// two-digit numeric suffix, and substitutes a positional name for empty
// slugs. idx is the group's 1-based ordinal.
func ensureUniqueSlug(slug string, used map[string]struct{}, idx int) string {
	base := slug
	if base == "" {
		base = fmt.Sprintf("cluster-%02d", idx)
	}
	candidate := base
	for suffix := 2; ; suffix++ {
		if _, taken := used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%02d", base, suffix)
	}
	used[candidate] = struct{}{}
	return candidate
}
