package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/anchor"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// buildList turns the first list of the article into the menu and every
// later list into a content list.
func buildList(ctx *Context, n *html.Node) []*blocks.Block {
	if len(document.Elements(n, "li")) == 0 {
		return nil
	}
	ordered := document.IsElement(n, "ol")
	if !ctx.FirstListSeen {
		ctx.FirstListSeen = true
		return []*blocks.Block{menuList(n, ordered)}
	}
	return []*blocks.Block{contentList(ctx, n, ordered)}
}

// menuList points every item at the anchor of its own text, so the menu
// links to the headings it names. Items without a link get one.
func menuList(n *html.Node, ordered bool) *blocks.Block {
	for _, li := range document.Elements(n, "li") {
		ls := document.Collect(li, func(d *html.Node) bool {
			return document.IsElement(d, "a") && document.Closest(d, "li") == li
		})
		if len(ls) == 0 {
			text := ownText(li)
			if text == "" {
				continue
			}
			a := document.NewElement("a", html.Attribute{Key: "href", Val: anchor.Href(stripLevelMarkers(text))})
			for _, c := range document.Nodes(li) {
				if document.IsElement(c, "ul", "ol") {
					break
				}
				document.Remove(c)
				a.AppendChild(c)
			}
			li.InsertBefore(a, li.FirstChild)
			continue
		}
		for _, a := range ls {
			href := anchor.Href(stripLevelMarkers(document.Text(a)))
			if href == "" {
				document.Unwrap(a)
				continue
			}
			a.Attr = []html.Attribute{{Key: "href", Val: href}}
		}
	}
	return &blocks.Block{
		Type:      blocks.List,
		Ordered:   ordered,
		ClassName: "menu-list",
		Inner:     strings.TrimSpace(document.InnerHTML(n)),
	}
}

// ownText is the text of a list item without its nested lists.
func ownText(li *html.Node) string {
	var parts []string
	for _, c := range document.Nodes(li) {
		if document.IsElement(c, "ul", "ol") {
			break
		}
		parts = append(parts, document.RawText(c))
	}
	return document.Collapse(strings.Join(parts, ""))
}

// contentList flattens nested lists into their parent item, strips dash
// markers and picks the list classes.
func contentList(ctx *Context, n *html.Node, ordered bool) *blocks.Block {
	total := len(document.Elements(n, "li"))
	flattenNested(n)

	b := &blocks.Block{Type: blocks.List, Ordered: ordered}
	if isDashList(n) {
		stripDashes(n)
		b.AddClass("dash-list")
	}
	if total > twoColumnThreshold {
		b.AddClass("two-column")
	}
	switch {
	case ctx.lastRule == "references":
		b.AddClass("references-list")
	case ctx.ReferencesActive:
		b.AddClass("references")
	}
	if cls := ctx.listClass(); cls != "" {
		b.AddClass(cls)
	}
	b.Inner = strings.TrimSpace(document.InnerHTML(n))
	return b
}

// flattenNested moves the items of nested lists into the parent item as
// line-separated text, deepest first, so item order is kept.
func flattenNested(n *html.Node) {
	nested := document.Collect(n, func(d *html.Node) bool { return document.IsElement(d, "ul", "ol") })
	for i := len(nested) - 1; i >= 0; i-- {
		sub := nested[i]
		li := sub.Parent
		if !document.IsElement(li, "li") {
			// a list directly inside a list belongs to the previous item
			li = document.PrevElement(sub)
			if !document.IsElement(li, "li") {
				document.Unwrap(sub)
				continue
			}
		}
		for _, item := range document.Elements(sub, "li") {
			if document.HasText(item) || hasImage(item) {
				li.AppendChild(document.NewElement("br"))
				document.MoveChildren(li, item)
			}
		}
		document.Remove(sub)
	}
}

func isDashList(n *html.Node) bool {
	items := document.Elements(n, "li")
	if len(items) == 0 {
		return false
	}
	for _, li := range items {
		if !strings.HasPrefix(document.Text(li), "- ") {
			return false
		}
	}
	return true
}

// stripDashes removes the leading "- " of every item and of every line that
// flattenNested added to it.
func stripDashes(n *html.Node) {
	for _, li := range document.Elements(n, "li") {
		lineStart := true
		document.Walk(li, func(d *html.Node) bool {
			if document.IsElement(d, "br") {
				lineStart = true
				return false
			}
			if d.Type != html.TextNode || document.IsBlank(d) || !lineStart {
				return true
			}
			lineStart = false
			text := strings.TrimLeft(d.Data, " \t\n")
			if rest, ok := strings.CutPrefix(text, "-"); ok && (rest == "" || rest[0] == ' ') {
				d.Data = strings.TrimLeft(rest, " ")
			}
			return false
		})
	}
}
