package listing

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagPattern = regexp.MustCompile(`(?i)<(p|br|div|ul|ol|li|h[1-6]|strong|em|b|i|span)\b[^>]*>`)

// LooksLikeHTML reports whether a description carries HTML markup, as
// descriptions imported from other storefronts often do.
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// HTMLToText flattens an HTML description to plain text, one block element
// per line.
func HTMLToText(s string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	doc.Find("script,noscript,style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")

	var blocks []string
	doc.Find("h1,h2,h3,h4,h5,h6,p,li").Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks are collected through their parent.
		if sel.ParentsFiltered("p,li").Length() > 0 {
			return
		}
		if text := collapseLines(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return collapseLines(doc.Text()), nil
	}
	return strings.Join(blocks, "\n"), nil
}

// collapseLines trims every line and drops empty ones.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
