package document

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespacePattern = regexp.MustCompile(`[ \t\x{00A0}]+`)

// blockElements end the current line when they open or close.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "tr": true, "ul": true,
}

var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

func readHTMLFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	doc, err := html.Parse(file)
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var builder strings.Builder
	writeTextContent(doc, &builder)
	return cleanLines(builder.String()), nil
}

// writeTextContent writes the text nodes under n, with a newline around every block element.
func writeTextContent(n *html.Node, builder *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		builder.WriteString(n.Data)
		return
	}

	isBlock := n.Type == html.ElementNode && blockElements[n.Data]
	if isBlock {
		builder.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeTextContent(c, builder)
	}
	if isBlock {
		builder.WriteString("\n")
	}
}

func cleanLines(s string) string {
	var lines []string
	for _, line := range strings.Split(normalizeNewlines(s), "\n") {
		line = strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
