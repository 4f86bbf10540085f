package cleaner

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

var (
	trailingOpenTag = regexp.MustCompile(`\[([a-z][a-z0-9_]*)(?:\s[^\]]*)?\]\s*$`)
	leadingCloseTag = regexp.MustCompile(`^\s*\[/([a-z][a-z0-9_]*)\]`)
)

// unwrapBlock removes the block delimiters directly around n: a matching
// <!-- wp:name --> / <!-- /wp:name --> comment pair, or a matching [name] /
// [/name] shortcode pair at the edges of the neighbouring text. Returns true
// when a pair was removed.
func unwrapBlock(n *html.Node) bool {
	prev, next := document.PrevNonBlank(n), document.NextNonBlank(n)
	if prev == nil || next == nil {
		return false
	}

	if prev.Type == html.CommentNode && next.Type == html.CommentNode {
		name := blocks.DelimiterName(prev)
		if name == "" || blocks.IsClosingDelimiter(prev) || !blocks.IsClosingDelimiter(next) || blocks.DelimiterName(next) != name {
			return false
		}
		document.Remove(prev)
		document.Remove(next)
		return true
	}

	if prev.Type == html.TextNode && next.Type == html.TextNode {
		open := trailingOpenTag.FindStringSubmatchIndex(prev.Data)
		closeTag := leadingCloseTag.FindStringSubmatch(next.Data)
		if open == nil || closeTag == nil || prev.Data[open[2]:open[3]] != closeTag[1] {
			return false
		}
		prev.Data = strings.TrimRight(prev.Data[:open[0]], " \t")
		next.Data = strings.TrimLeft(next.Data[len(closeTag[0]):], " \t")
		return true
	}
	return false
}

// replaceWithMarkup swaps n for the nodes parsed from markup.
func replaceWithMarkup(n *html.Node, markup string) error {
	nodes, err := document.ParseFragment(markup)
	if err != nil {
		return err
	}
	document.ReplaceWith(n, nodes...)
	return nil
}
