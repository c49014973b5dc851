package extract

import (
	"bufio"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// convertToMarkdown walks the content-bearing tags of distilled HTML in
// document order and emits Markdown blocks.
func convertToMarkdown(doc *goquery.Document) string {
	var blocks []string
	doc.Find("h1,h2,h3,h4,p,li,table,pre").Each(func(_ int, s *goquery.Selection) {
		switch tag := goquery.NodeName(s); tag {
		case "table":
			if table := renderTable(s); table != "" {
				blocks = append(blocks, table)
			}
		case "pre":
			if code := renderCodeBlock(s); code != "" {
				blocks = append(blocks, code)
			}
		case "li":
			if text := normalizeText(s.Text()); text != "" {
				blocks = append(blocks, "- "+text)
			}
		case "p":
			if text := normalizeText(s.Text()); text != "" {
				blocks = append(blocks, text)
			}
		default:
			if text := normalizeText(s.Text()); text != "" {
				blocks = append(blocks, strings.Repeat("#", headingLevel(tag))+" "+text)
			}
		}
	})
	return strings.Join(blocks, "\n\n")
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	default:
		return 4
	}
}

// renderTable emits a pipe table from explicit headers or the first row.
func renderTable(s *goquery.Selection) string {
	var headers []string
	s.Find("thead tr th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, normalizeText(th.Text()))
	})
	if len(headers) == 0 {
		s.Find("tr").First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, normalizeText(cell.Text()))
		})
	}

	var rows [][]string
	s.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, normalizeText(td.Text()))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	if len(headers) == 0 && len(rows) == 0 {
		return ""
	}

	var lines []string
	if len(headers) > 0 {
		lines = append(lines, "| "+strings.Join(headers, " | ")+" |")
		separators := make([]string, len(headers))
		for i := range separators {
			separators[i] = "---"
		}
		lines = append(lines, "| "+strings.Join(separators, " | ")+" |")
	}
	for _, row := range rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// renderCodeBlock emits a fenced code block, keeping the language hint from
// the code element's class when present.
func renderCodeBlock(s *goquery.Selection) string {
	codeSel := s.Find("code")
	if codeSel.Length() == 0 {
		return ""
	}
	code := strings.TrimSpace(codeSel.Text())
	if code == "" {
		return ""
	}
	lang, _ := codeSel.Attr("class")
	lang = strings.TrimPrefix(lang, "language-")
	return "```" + lang + "\n" + code + "\n```"
}

// normalizeText trims each line and joins them with single spaces.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
