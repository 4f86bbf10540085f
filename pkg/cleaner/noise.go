package cleaner

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// Noise strips leftovers of the word-processor markup: style and script
// elements, font and bare span wrappers, language attributes, paragraphs
// that only wrap a block comment, and empty paragraphs or list items
// together with their block delimiters.
type Noise struct{}

// NewNoise creates the noise-strip pass.
func NewNoise() *Noise {
	return &Noise{}
}

// Clean strips noise from markup.
func (c *Noise) Clean(markup string) (string, error) {
	return cleanTree(c, markup)
}

// Name returns the pass name.
func (c *Noise) Name() string {
	return "noise"
}

// CleanTree strips noise until nothing changes.
func (c *Noise) CleanTree(tree *document.Tree) int {
	total := 0
	for {
		n := c.pass(tree)
		if n == 0 {
			return total
		}
		total += n
	}
}

func (c *Noise) pass(tree *document.Tree) int {
	changed := 0

	tree.Find("style, script, meta, link, title").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
		changed++
	})

	for _, n := range document.Elements(tree.Root, "font", "span") {
		if document.IsElement(n, "font") || len(n.Attr) == 0 {
			document.Unwrap(n)
			changed++
		}
	}

	document.Walk(tree.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if document.RemoveAttr(n, "lang") {
				changed++
			}
			if document.RemoveAttr(n, "xml:lang") {
				changed++
			}
		}
		return true
	})

	for _, p := range document.Elements(tree.Root, "p") {
		if onlyComments(p) {
			document.Unwrap(p)
			changed++
		}
	}

	for _, n := range document.Elements(tree.Root, "p", "li") {
		if n.Parent == nil || !isEmpty(n) {
			continue
		}
		unwrapBlock(n)
		document.Remove(n)
		changed++
	}
	return changed
}

// onlyComments reports whether p holds at least one comment and nothing but
// comments and whitespace.
func onlyComments(p *html.Node) bool {
	comments := 0
	for _, c := range document.Nodes(p) {
		switch {
		case c.Type == html.CommentNode:
			comments++
		case document.IsBlank(c):
		default:
			return false
		}
	}
	return comments > 0
}

// isEmpty reports whether n has no visible content.
func isEmpty(n *html.Node) bool {
	if document.HasText(n) {
		return false
	}
	return len(document.Elements(n, "img", "iframe", "video", "hr", "table", "input")) == 0 &&
		len(document.Collect(n, func(d *html.Node) bool { return d.Type == html.CommentNode })) == 0
}
