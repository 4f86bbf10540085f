package document

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var spaceRun = regexp.MustCompile(`[\s\x{00a0}\x{200b}]+`)

// RawText concatenates the text nodes below n without normalisation.
func RawText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	Walk(n, func(d *html.Node) bool {
		if d.Type == html.TextNode {
			sb.WriteString(d.Data)
		}
		return true
	})
	return sb.String()
}

// Text returns the text content of n with whitespace runs collapsed to one
// space and the ends trimmed. Non-breaking spaces count as whitespace.
func Text(n *html.Node) string {
	return Collapse(RawText(n))
}

// Collapse collapses whitespace runs and trims.
func Collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Lines returns the text of n split at line breaks and block boundaries.
// Each line is collapsed; empty lines are dropped.
func Lines(n *html.Node) []string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(d *html.Node) {
		switch {
		case d.Type == html.TextNode:
			sb.WriteString(d.Data)
			return
		case IsElement(d, "br"):
			sb.WriteByte('\n')
			return
		}
		block := IsElement(d, "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "figcaption")
		if block {
			sb.WriteByte('\n')
		}
		for c := d.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			sb.WriteByte('\n')
		}
	}
	walk(n)
	var out []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if line = Collapse(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// RuneLen counts runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// HasText reports whether n holds any non-whitespace text.
func HasText(n *html.Node) bool {
	return Text(n) != ""
}
