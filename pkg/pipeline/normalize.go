package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// normalize prepares the parsed tree for classification. Order matters:
// stray text is wrapped first so the boundary search sees paragraphs, and
// merging runs last so it compares finished underline markup.
func (c *Converter) normalize(ctx *Context, tree *document.Tree) {
	unwrapContainers(tree)
	wrapStrayText(tree)
	ctx.result.Stats.NodesTrimmed = c.trimBoundaries(ctx, tree)
	ctx.result.Stats.UnderlinesMarked = normalizeUnderline(tree.Root)
	if c.config.MergeParagraphs {
		ctx.result.Stats.ParagraphsMerged = mergeParagraphs(tree)
	}
}

// unwrapContainers lifts the content of top-level layout wrappers so the
// article's paragraphs become top-level nodes.
func unwrapContainers(tree *document.Tree) {
	for {
		unwrapped := false
		for _, n := range document.Children(tree.Root) {
			if document.IsElement(n, "div", "section", "article", "main", "body") && !document.HasAttr(n, "id") {
				document.Unwrap(n)
				unwrapped = true
			}
		}
		if !unwrapped {
			return
		}
	}
}

// wrapStrayText wraps top-level text runs in paragraphs.
func wrapStrayText(tree *document.Tree) {
	for n := tree.Root.FirstChild; n != nil; {
		next := n.NextSibling
		if n.Type == html.TextNode && !document.IsBlank(n) {
			document.Wrap(n, document.NewElement("p"))
		}
		n = next
	}
}

// trimBoundaries removes everything before the article start and everything
// from the end marker on. The start is the start-marker paragraph for bracket
// dialects (falling back to the first h1) and the first h1 otherwise. A start
// marker holding several images is kept as an image paragraph. Returns the
// number of top-level nodes removed.
func (c *Converter) trimBoundaries(ctx *Context, tree *document.Tree) int {
	removed := 0
	root := tree.Root

	var start *html.Node
	isMarker := false
	if blocks.IsBracket(ctx.Dialect) && c.config.StartMarker != "" {
		for _, n := range document.Children(root) {
			if document.IsElement(n, "p", "div") && strings.EqualFold(document.Text(n), c.config.StartMarker) {
				start, isMarker = n, true
				break
			}
		}
	}
	if start == nil {
		for _, n := range document.Children(root) {
			if document.IsElement(n, "h1") {
				start = n
				break
			}
		}
	}

	if start != nil {
		for n := start.PrevSibling; n != nil; {
			prev := n.PrevSibling
			if n.Type == html.ElementNode {
				removed++
			}
			root.RemoveChild(n)
			n = prev
		}
		if isMarker {
			imgs := images(start)
			if len(imgs) > 1 {
				p := document.NewElement("p")
				for _, img := range imgs {
					document.Remove(img)
					p.AppendChild(img)
				}
				document.ReplaceWith(start, p)
			} else {
				document.Remove(start)
				removed++
			}
		}
	}

	if c.config.EndMarker != "" {
		for _, n := range document.Children(root) {
			if !document.IsElement(n, "p") || !strings.EqualFold(document.Text(n), c.config.EndMarker) {
				continue
			}
			for m := n; m != nil; {
				next := m.NextSibling
				if m.Type == html.ElementNode {
					removed++
				}
				root.RemoveChild(m)
				m = next
			}
			break
		}
	}

	if start == nil {
		ctx.warn("normalize", "no start boundary found; keeping leading content", nil)
	}
	return removed
}

var underlineDecl = regexp.MustCompile(`(?i)\s*(text-decoration(?:-line)?\s*:[^;]*underline[^;]*|text-underline(?:-style)?\s*:[^;]*|mso-underline\s*:[^;]*)\s*;?`)

// normalizeUnderline turns underline expressed as inline style into <u>
// markup around the element's text runs and strips the style declaration.
// Returns the number of elements converted.
func normalizeUnderline(root *html.Node) int {
	var targets []*html.Node
	document.Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && !document.IsElement(n, "u") && underlineDecl.MatchString(document.Attr(n, "style")) {
			targets = append(targets, n)
		}
		return true
	})

	for _, n := range targets {
		style := strings.TrimSpace(underlineDecl.ReplaceAllString(document.Attr(n, "style"), ""))
		if style == "" {
			document.RemoveAttr(n, "style")
		} else {
			document.SetAttr(n, "style", style)
		}
		for _, t := range document.Collect(n, func(d *html.Node) bool { return d.Type == html.TextNode && !document.IsBlank(d) }) {
			if document.Closest(t, "u") != nil {
				continue
			}
			document.Wrap(t, document.NewElement("u"))
		}
	}
	return len(targets)
}

// mergeParagraphs joins adjacent top-level plain paragraphs with a line
// break when they share alignment, neither holds an image or a guarded
// keyword, and either the first ends with a break or both are short.
// Returns the number of merges.
func mergeParagraphs(tree *document.Tree) int {
	merged := 0
	for n := firstElement(tree.Root); n != nil; {
		next := document.NextElement(n)
		if next != nil && canMerge(n, next) {
			if !endsWithBreak(n) {
				n.AppendChild(document.NewElement("br"))
			}
			document.MoveChildren(n, next)
			document.Remove(next)
			merged++
			continue
		}
		n = next
	}
	return merged
}

func firstElement(root *html.Node) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func canMerge(a, b *html.Node) bool {
	if !document.IsElement(a, "p") || !document.IsElement(b, "p") {
		return false
	}
	if mergeGuarded(a) || mergeGuarded(b) {
		return false
	}
	if IsCentered(a) != IsCentered(b) {
		return false
	}
	if endsWithBreak(a) {
		return true
	}
	return document.RuneLen(document.Text(a)) < mergeMaxRunes && document.RuneLen(document.Text(b)) < mergeMaxRunes
}

// mergeGuarded reports whether p must stay on its own: it is empty, holds an
// image, a keyword marker, a video link, a caption-like or label-like run, or
// a quotation.
func mergeGuarded(p *html.Node) bool {
	text := document.Text(p)
	switch {
	case text == "", hasImage(p), anyKeyword(text):
		return true
	case leadingVideoURL(text) != "", isVideoLinkParagraph(p):
		return true
	case isItalic(p), isBoldUnderlined(p):
		return true
	case isQuotation(text):
		return true
	case document.Attr(p, "class") != "":
		return true
	}
	return false
}
