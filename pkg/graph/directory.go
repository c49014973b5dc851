package graph

import (
	"path/filepath"
	"strings"
)

// archiveRootMarker is the conventional directory name separating the archive
// root from the mirrored host tree (site_backup/<host>/...).
const archiveRootMarker = "site_backup"

// DirectoryKey derives a grouping key from a page's archive path: the mirrored
// host (when detectable) plus up to depth path segments below it. Depth 0
// yields a host-level key, with "root" standing in when no host is found.
func DirectoryKey(filePath string, depth int) string {
	if depth < 0 {
		depth = 0
	}
	parts := splitPathParts(filePath)

	host := ""
	hostIndex := -1
	for idx, segment := range parts {
		if segment == archiveRootMarker && idx+1 < len(parts) {
			host = parts[idx+1]
			hostIndex = idx + 1
			break
		}
	}
	if hostIndex == -1 {
		for idx, segment := range parts {
			lowered := strings.ToLower(segment)
			if strings.Contains(segment, ".") && !isHTMLName(lowered) {
				host = segment
				hostIndex = idx
				break
			}
		}
	}

	relParts := parts
	if hostIndex >= 0 {
		relParts = parts[hostIndex+1:]
	}
	var segments []string
	for _, segment := range relParts {
		if isHTMLName(strings.ToLower(segment)) {
			break
		}
		segments = append(segments, segment)
		if depth > 0 && len(segments) >= depth {
			break
		}
	}
	if depth > 0 && len(segments) == 0 && len(relParts) > 0 {
		segments = append(segments, relParts[0])
	}

	var keySegments []string
	if depth == 0 {
		if host == "" {
			keySegments = []string{"root"}
		} else {
			keySegments = []string{host}
		}
	} else if host != "" {
		keySegments = append([]string{host}, segments...)
	} else {
		keySegments = segments
	}
	if len(keySegments) == 0 {
		return filepath.ToSlash(filepath.Dir(filePath))
	}
	return strings.Join(keySegments, "/")
}

func splitPathParts(filePath string) []string {
	normalized := filepath.ToSlash(filePath)
	var parts []string
	for _, segment := range strings.Split(normalized, "/") {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return parts
}

func isHTMLName(lowered string) bool {
	return strings.HasSuffix(lowered, ".html") || strings.HasSuffix(lowered, ".htm")
}
