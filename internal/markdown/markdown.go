// Package markdown converts job descriptions between Markdown, HTML and plain
// text.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// converter renders GitHub flavored Markdown. Raw HTML in the source is
// omitted from the output.
var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

var spaces = regexp.MustCompile(`\s+`)

// HTML renders src to an HTML fragment.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// blockSelector lists the elements that become their own line of text.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, tr"

// Text renders src and returns its readable text: one line per heading,
// paragraph or table row, list items prefixed with "- ", blocks separated by
// a blank line.
func Text(src string) (string, error) {
	html, err := HTML(src)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are emitted on their own.
		if s.ParentsFiltered("li, blockquote").Length() > 0 && !s.Is("li") {
			return
		}
		var line string
		switch {
		case s.Is("pre"):
			line = strings.TrimRight(s.Text(), "\n")
		case s.Is("tr"):
			cells := s.Find("th, td").Map(func(_ int, c *goquery.Selection) string {
				return clean(c.Text())
			})
			line = strings.Join(cells, " | ")
		case s.Is("li"):
			item := s.Clone()
			item.Find("ul, ol").Remove()
			depth := s.ParentsFiltered("li").Length()
			line = strings.Repeat("  ", depth) + "- " + clean(item.Text())
		default:
			line = clean(s.Text())
		}
		if line != "" {
			blocks = append(blocks, line)
		}
	})

	return joinBlocks(blocks), nil
}

// joinBlocks separates blocks with blank lines, keeping consecutive list
// items and table rows together.
func joinBlocks(blocks []string) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			prev := blocks[i-1]
			if !(isItem(prev) && isItem(b)) && !(isRow(prev) && isRow(b)) {
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(b)
	}
	return sb.String()
}

func isItem(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), "- ")
}

func isRow(line string) bool {
	return strings.Contains(line, " | ")
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
