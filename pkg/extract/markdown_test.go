package extract

import (
	"strings"
	"testing"
)

func TestConvertToMarkdown(t *testing.T) {
	html := `<html><body>
<h1>Guide</h1>
<h2>Install</h2>
<p>Run the
   installer.</p>
<ul><li>step one</li><li>step two</li></ul>
</body></html>`

	got := convertToMarkdown(parseDoc(t, html))

	want := "# Guide\n\n## Install\n\nRun the installer.\n\n- step one\n\n- step two"
	if got != want {
		t.Errorf("convertToMarkdown() =\n%q\nwant\n%q", got, want)
	}
}

func TestConvertToMarkdownTable(t *testing.T) {
	html := `<html><body><table>
<thead><tr><th>Flag</th><th>Default</th></tr></thead>
<tbody><tr><td>--out</td><td>site2docs-out</td></tr></tbody>
</table></body></html>`

	got := convertToMarkdown(parseDoc(t, html))

	wantLines := []string{
		"| Flag | Default |",
		"| --- | --- |",
		"| --out | site2docs-out |",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("table output missing %q:\n%s", line, got)
		}
	}
}

func TestConvertToMarkdownTableWithoutHead(t *testing.T) {
	html := `<html><body><table>
<tbody><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></tbody>
</table></body></html>`

	got := convertToMarkdown(parseDoc(t, html))

	// The first row is promoted to the header.
	if !strings.Contains(got, "| a | b |") || !strings.Contains(got, "| --- | --- |") {
		t.Errorf("headerless table not promoted:\n%s", got)
	}
	if !strings.Contains(got, "| c | d |") {
		t.Errorf("table body row missing:\n%s", got)
	}
}

func TestConvertToMarkdownCodeBlock(t *testing.T) {
	html := `<html><body><pre><code class="language-go">fmt.Println("hi")</code></pre></body></html>`

	got := convertToMarkdown(parseDoc(t, html))

	want := "```go\nfmt.Println(\"hi\")\n```"
	if got != want {
		t.Errorf("convertToMarkdown() = %q, want %q", got, want)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  line one  \n  line two  ", "line one line two"},
		{"\n\n\n", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := normalizeText(tt.input); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
