package playwright

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are tags whose text carries no visible content.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"template": true,
	"head":     true,
}

// VisibleText extracts the visible text of the current page, collapsed
// to single spaces and truncated to maxLength characters. Used by
// callers that want a cheap textual read of the page, for example
// CAPTCHA heuristics, without shipping the full HTML anywhere.
func (c *Computer) VisibleText(maxLength int) (string, error) {
	raw, err := c.Content()
	if err != nil {
		return "", err
	}
	return extractVisibleText(raw, maxLength)
}

func extractVisibleText(rawHTML string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	collectText(doc, &builder, maxLength)

	text := strings.Join(strings.Fields(builder.String()), " ")
	if maxLength > 0 && len(text) > maxLength {
		text = text[:maxLength]
	}
	return text, nil
}

func collectText(n *html.Node, builder *strings.Builder, maxLength int) {
	if maxLength > 0 && builder.Len() > maxLength*2 {
		// Collected more than enough raw text to fill the budget after
		// whitespace collapsing.
		return
	}

	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		if skippedElements[strings.ToLower(n.Data)] {
			return
		}
	case html.TextNode:
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" {
			builder.WriteString(trimmed)
			builder.WriteString(" ")
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder, maxLength)
	}
}
