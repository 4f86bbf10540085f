package blocks

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// Gutenberg writes block-comment markup: every block is bracketed by
// <!-- wp:name {attrs} --> and <!-- /wp:name --> comments.
type Gutenberg struct{}

func (Gutenberg) Name() string { return NameGutenberg }

func (g Gutenberg) Render(bs []*Block) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		if s := g.RenderBlock(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (g Gutenberg) RenderBlock(b *Block) string {
	switch b.Type {
	case Paragraph:
		var attrs Attrs
		if b.Align != "" {
			attrs.Set("align", b.Align)
		}
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		return wpWrap("paragraph", attrs, "<p"+classAttr(alignClass(b.Align), b.ClassName)+">"+b.Inner+"</p>")

	case Heading:
		var attrs Attrs
		if b.Align != "" {
			attrs.Set("textAlign", b.Align)
		}
		attrs.Set("level", b.Level)
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		tag := fmt.Sprintf("h%d", b.Level)
		return wpWrap("heading", attrs, "<"+tag+classAttr("wp-block-heading", alignClass(b.Align), b.ClassName)+
			attrPair("id", b.Anchor)+">"+b.Inner+"</"+tag+">")

	case Image:
		var attrs Attrs
		if b.Align != "" {
			attrs.Set("align", b.Align)
		}
		attrs.Set("sizeSlug", "large")
		if b.Link != "" {
			attrs.Set("linkDestination", "custom")
		} else {
			attrs.Set("linkDestination", "none")
		}
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		img := imgTag(b, "")
		if b.Link != "" {
			img = `<a href="` + document.EscapeAttr(b.Link) + `">` + img + "</a>"
		}
		var align string
		if b.Align != "" {
			align = "align" + b.Align
		}
		inner := "<figure" + classAttr("wp-block-image", align, "size-large", b.ClassName) + ">" + img
		if b.Caption != "" {
			inner += `<figcaption class="wp-element-caption">` + b.Caption + "</figcaption>"
		}
		return wpWrap("image", attrs, inner+"</figure>")

	case Embed:
		provider := VideoProvider(b.URL)
		var attrs Attrs
		attrs.Set("url", b.URL)
		attrs.Set("type", "video")
		if provider != ProviderNone {
			attrs.Set("providerNameSlug", string(provider))
		}
		attrs.Set("responsive", true)
		attrs.Set("className", "wp-embed-aspect-16-9 wp-has-aspect-ratio")
		classes := []string{"wp-block-embed", "is-type-video"}
		if provider != ProviderNone {
			classes = append(classes, "is-provider-"+string(provider), "wp-block-embed-"+string(provider))
		}
		classes = append(classes, "wp-embed-aspect-16-9", "wp-has-aspect-ratio")
		inner := "<figure" + classAttr(classes...) + `><div class="wp-block-embed__wrapper">` + "\n" +
			document.EscapeText(b.URL) + "\n</div>"
		if b.Caption != "" {
			inner += `<figcaption class="wp-element-caption">` + b.Caption + "</figcaption>"
		}
		return wpWrap("embed", attrs, inner+"</figure>")

	case Columns:
		var attrs Attrs
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		cols := make([]string, 0, len(b.Children))
		for _, c := range b.Children {
			cols = append(cols, g.RenderBlock(c))
		}
		return wpWrap("columns", attrs, "<div"+classAttr("wp-block-columns", b.ClassName)+">\n"+
			strings.Join(cols, "\n\n")+"\n</div>")

	case Column:
		var attrs Attrs
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		return wpWrap("column", attrs, "<div"+classAttr("wp-block-column", b.ClassName)+">\n"+
			g.Render(b.Children)+"\n</div>")

	case List:
		var attrs Attrs
		tag := "ul"
		if b.Ordered {
			attrs.Set("ordered", true)
			tag = "ol"
		}
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		return wpWrap("list", attrs, "<"+tag+classAttr(b.ClassName)+">"+b.Inner+"</"+tag+">")

	case Table:
		var attrs Attrs
		attrs.Set("hasFixedLayout", true)
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		return wpWrap("table", attrs, "<figure"+classAttr("wp-block-table", b.ClassName)+
			`><table class="has-fixed-layout">`+b.Inner+"</table></figure>")

	case Buttons:
		var attrs Attrs
		layout := Attrs{{Key: "type", Value: "flex"}}
		if b.Align != "" {
			layout.Set("justifyContent", b.Align)
		}
		attrs.Set("layout", layout)
		btns := make([]string, 0, len(b.Children))
		for _, c := range b.Children {
			btns = append(btns, g.RenderBlock(c))
		}
		return wpWrap("buttons", attrs, `<div class="wp-block-buttons">`+"\n"+strings.Join(btns, "\n\n")+"\n</div>")

	case Button:
		var attrs Attrs
		var color []string
		if b.Color != "" {
			attrs.Set("backgroundColor", b.Color)
			color = []string{"has-" + b.Color + "-background-color", "has-background"}
		}
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		link := "<a" + classAttr(append([]string{"wp-block-button__link"}, append(color, "wp-element-button")...)...) +
			attrPair("href", b.URL) + ">" + b.Text + "</a>"
		return wpWrap("button", attrs, "<div"+classAttr("wp-block-button", b.ClassName)+">"+link+"</div>")

	case Separator:
		return wpWrap("separator", nil, `<hr class="wp-block-separator has-alpha-channel-opacity">`)

	case AnchorTarget:
		return wpWrap("html", nil, `<div id="`+document.EscapeAttr(b.Anchor)+`" class="anchor-target"></div>`)

	case HTML:
		return wpWrap("html", nil, b.Inner)

	case Quote:
		var attrs Attrs
		if b.ClassName != "" {
			attrs.Set("className", b.ClassName)
		}
		return wpWrap("quote", attrs, "<blockquote"+classAttr("wp-block-quote", b.ClassName)+"><p>"+b.Inner+"</p></blockquote>")

	case Reusable:
		attrs := Attrs{{Key: "ref", Value: b.Ref}}
		return "<!-- wp:block " + attrs.commentSafe() + " /-->"
	}
	return ""
}

// TableWrapped looks for the closest preceding block delimiter and checks
// that it opens a table block.
func (Gutenberg) TableWrapped(table *html.Node) bool {
	marker := document.PrevMarker(table, isDelimiter)
	if marker == nil {
		return false
	}
	return DelimiterName(marker) == "table" && !IsClosingDelimiter(marker)
}

func (Gutenberg) EmbedSelector() string { return "figure.wp-block-embed" }

func (Gutenberg) RewriteLinkTargets(text string, _ func(string) bool) string { return text }

func isDelimiter(n *html.Node) bool {
	return DelimiterName(n) != ""
}

// DelimiterName returns the block name of a block-comment delimiter node
// ("table" for <!-- wp:table -->), or "" when n is not a delimiter.
func DelimiterName(n *html.Node) string {
	if n == nil || n.Type != html.CommentNode {
		return ""
	}
	data := strings.TrimSpace(n.Data)
	data = strings.TrimPrefix(data, "/")
	if !strings.HasPrefix(data, "wp:") {
		return ""
	}
	name := strings.TrimPrefix(data, "wp:")
	if i := strings.IndexAny(name, " /"); i >= 0 {
		name = name[:i]
	}
	return name
}

// IsClosingDelimiter reports whether n is a <!-- /wp:name --> comment.
func IsClosingDelimiter(n *html.Node) bool {
	return n != nil && n.Type == html.CommentNode && strings.HasPrefix(strings.TrimSpace(n.Data), "/wp:")
}

func wpWrap(name string, attrs Attrs, inner string) string {
	open := "<!-- wp:" + name
	if len(attrs) > 0 {
		open += " " + attrs.commentSafe()
	}
	return open + " -->\n" + inner + "\n<!-- /wp:" + name + " -->"
}

func alignClass(align string) string {
	if align == "" {
		return ""
	}
	return "has-text-align-" + align
}

func imgTag(b *Block, style string) string {
	s := `<img src="` + document.EscapeAttr(b.URL) + `" alt="` + document.EscapeAttr(b.Alt) + `"`
	if style != "" {
		s += ` style="` + style + `"`
	}
	return s + ">"
}
