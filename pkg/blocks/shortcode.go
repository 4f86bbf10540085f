package blocks

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// Shortcode writes the generic theme shortcodes: [row]/[col] layout,
// [image], [video], [button] and friends, with paragraph text in [text].
type Shortcode struct{}

func (Shortcode) Name() string { return NameShortcode }

func (s Shortcode) Render(bs []*Block) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		if r := s.RenderBlock(b); r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "\n")
}

func (s Shortcode) RenderBlock(b *Block) string {
	switch b.Type {
	case Paragraph:
		return "[text" + attrPair("align", b.Align) + attrPair("class", b.ClassName) + "]" + breaksToNewlines(b.Inner) + "[/text]"

	case Heading:
		return `[heading level="` + strconv.Itoa(b.Level) + `"` + attrPair("align", b.Align) + attrPair("class", b.ClassName) +
			attrPair("id", b.Anchor) + "]" + breaksToNewlines(b.Inner) + "[/heading]"

	case Image:
		r := `[image src="` + document.EscapeAttr(b.URL) + `"` + attrPair("alt", b.Alt) + attrPair("align", b.Align)
		if b.Link != "" {
			r += ` url="` + document.EscapeAttr(b.Link) + `" target="_self"`
		}
		return r + markupAttrPair("caption", breaksToNewlines(b.Caption)) + attrPair("class", b.ClassName) + "]"

	case Embed:
		return `[video url="` + document.EscapeAttr(b.URL) + `"` + markupAttrPair("caption", breaksToNewlines(b.Caption)) + "]"

	case Columns:
		size := columnFraction(len(b.Children), "/")
		parts := []string{"[row" + attrPair("class", b.ClassName) + "]"}
		for _, c := range b.Children {
			parts = append(parts, `[col size="`+size+`"]`, s.Render(c.Children), "[/col]")
		}
		parts = append(parts, "[/row]")
		return strings.Join(parts, "\n")

	case Column:
		return s.Render(b.Children)

	case List:
		ordered := ""
		if b.Ordered {
			ordered = ` ordered="true"`
		}
		return "[list" + ordered + attrPair("class", b.ClassName) + "]" + breaksToNewlines(b.Inner) + "[/list]"

	case Table:
		return "[table" + attrPair("class", b.ClassName) + `]<table style="table-layout: fixed;">` + b.Inner + "</table>[/table]"

	case Buttons:
		parts := []string{"[buttons" + attrPair("align", b.Align) + "]"}
		for _, c := range b.Children {
			parts = append(parts, s.RenderBlock(c))
		}
		parts = append(parts, "[/buttons]")
		return strings.Join(parts, "\n")

	case Button:
		return `[button url="` + document.EscapeAttr(b.URL) + `" target="_self"` + attrPair("color", b.Color) +
			attrPair("class", b.ClassName) + "]" + b.Text + "[/button]"

	case Separator:
		return "[divider]"

	case AnchorTarget:
		return `[anchor id="` + document.EscapeAttr(b.Anchor) + `"]`

	case HTML:
		return "[raw]" + b.Inner + "[/raw]"

	case Quote:
		return "[quote]" + breaksToNewlines(b.Inner) + "[/quote]"

	case Reusable:
		return `[block id="` + strconv.Itoa(b.Ref) + `"]`
	}
	return ""
}

func (Shortcode) TableWrapped(table *html.Node) bool {
	marker := document.PrevMarker(table, func(n *html.Node) bool {
		return n.Type == html.TextNode && strings.Contains(n.Data, "[")
	})
	return marker != nil && lastBracketTag(marker.Data) == "table"
}

func (Shortcode) EmbedSelector() string { return "" }

func (Shortcode) RewriteLinkTargets(text string, external func(string) bool) string {
	return rewriteBracketTargets(text, external)
}
