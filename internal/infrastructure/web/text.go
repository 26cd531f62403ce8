package web

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type ExtractConfig struct {
	TagsToSkip    []string
	MaxOutputSize int
}

var DefaultExtractConfig = ExtractConfig{
	TagsToSkip: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "template", "nav", "footer",
	},
	MaxOutputSize: 20_000,
}

// blockTags end a line of text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "table": true, "pre": true, "blockquote": true,
}

// ExtractText returns the visible text of an HTML document, one block per
// line, with runs of whitespace collapsed.
func ExtractText(rawHTML string, cfg *ExtractConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultExtractConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	walk(doc, cfg, &sb)

	lines := strings.Split(sb.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}

	return truncate(strings.Join(kept, "\n"), cfg.MaxOutputSize), nil
}

func walk(n *html.Node, cfg *ExtractConfig, sb *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		sb.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		if isOneOf(n.Data, cfg.TagsToSkip...) {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, cfg, sb)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		sb.WriteByte('\n')
	}
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return s[:runeBoundary(s, maxSize)] + "\n... (truncated)"
	}
	return s
}

// runeBoundary moves n back to the start of a UTF-8 sequence.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
