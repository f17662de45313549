package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements whose boundaries become paragraph breaks.
var blockTags = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "li": true, "blockquote": true,
	"pre": true, "section": true, "article": true, "tr": true,
}

// skipTags are elements whose text content is never narrative.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"head": true, "svg": true, "title": true,
}

func extractHTMLFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrExtraction, path, err)
	}
	defer f.Close()

	text, err := htmlToText(f)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrExtraction, path, err)
	}
	return text, nil
}

// htmlToText walks the parsed document and joins text nodes, inserting
// blank lines at block element boundaries.
func htmlToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(trimmed)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && (blockTags[n.Data] || n.Data == "br") {
			sb.WriteString("\n\n")
		}
	}
	walk(doc)

	return collapseBlankLines(sb.String()), nil
}

// collapseBlankLines trims trailing spaces and squeezes runs of blank lines
// down to a single blank line.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
