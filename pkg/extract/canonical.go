package extract

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// archiveRootMarker is the conventional directory name separating the archive
// root from the mirrored host tree.
const archiveRootMarker = "site_backup"

// inferCanonicalURL resolves a page's identifying URL. Preference order:
// the supplied URL when already http(s), a <link rel=canonical> or
// og:url/twitter:url declaration, a URL reconstructed from the archive path,
// then the sanitized input or a file URI as last resort.
func (e *Extractor) inferCanonicalURL(doc *goquery.Document, rawURL, filePath string) string {
	sanitized := stripFragment(rawURL)
	if isHTTPURL(sanitized) {
		return sanitized
	}
	host := hostFromArchivePath(filePath)
	if fromHTML := canonicalURLFromHTML(doc, host); fromHTML != "" {
		return fromHTML
	}
	if fromPath := urlFromArchivePath(filePath, host); fromPath != "" {
		return fromPath
	}
	if sanitized != "" {
		return sanitized
	}
	return fileURI(filePath)
}

// canonicalURLFromHTML reads the document's own URL declarations, completing
// relative ones against the mirrored host when known.
func canonicalURLFromHTML(doc *goquery.Document, host string) string {
	href := ""
	doc.Find("link[rel]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		for _, rel := range strings.Fields(strings.ToLower(link.AttrOr("rel", ""))) {
			if rel == "canonical" {
				href = strings.TrimSpace(link.AttrOr("href", ""))
				return href == ""
			}
		}
		return true
	})
	if href == "" {
		href = strings.TrimSpace(doc.Find(`meta[property="og:url"]`).First().AttrOr("content", ""))
	}
	if href == "" {
		href = strings.TrimSpace(doc.Find(`meta[name="twitter:url"]`).First().AttrOr("content", ""))
	}
	if href == "" {
		return ""
	}
	sanitized := stripFragment(href)
	if isHTTPURL(sanitized) {
		return sanitized
	}
	if host == "" {
		return sanitized
	}
	if strings.HasPrefix(sanitized, "/") {
		return "https://" + host + sanitized
	}
	return "https://" + host + "/" + strings.TrimLeft(sanitized, "/")
}

// hostFromArchivePath finds the mirrored hostname in an archive path: the
// last dotted segment after the archive marker that is not a page file.
func hostFromArchivePath(filePath string) string {
	parts := splitArchivePath(filePath)
	start := 0
	for idx, segment := range parts {
		if segment == archiveRootMarker {
			start = idx + 1
			break
		}
	}
	host := ""
	for _, segment := range parts[start:] {
		lowered := strings.ToLower(segment)
		if strings.Contains(segment, ".") && !isPageFileName(lowered) {
			host = segment
		}
	}
	return host
}

// urlFromArchivePath reconstructs the original URL from the path below the
// mirrored host directory.
func urlFromArchivePath(filePath, host string) string {
	if host == "" {
		return ""
	}
	parts := splitArchivePath(filePath)
	hostIndex := -1
	for idx, segment := range parts {
		if segment == host {
			hostIndex = idx
		}
	}
	if hostIndex == -1 {
		return ""
	}
	rest := strings.Join(parts[hostIndex+1:], "/")
	if rest == "" {
		return "https://" + host + "/"
	}
	return stripFragment("https://" + host + "/" + strings.TrimLeft(rest, "/"))
}

func splitArchivePath(filePath string) []string {
	var parts []string
	for _, segment := range strings.Split(filepath.ToSlash(filePath), "/") {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return parts
}

func isPageFileName(lowered string) bool {
	for _, ext := range []string{".html", ".htm", ".php", ".asp", ".aspx", ".jsp"} {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}

func isHTTPURL(candidate string) bool {
	return strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://")
}

func stripFragment(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if idx := strings.IndexByte(rawURL, '#'); idx >= 0 {
			return rawURL[:idx]
		}
		return rawURL
	}
	parsed.Fragment = ""
	return parsed.String()
}

func fileURI(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return "file://" + slashed
}
