package blocks

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// HTMLDialect writes plain annotated HTML: alignment becomes inline style,
// tables get a fixed layout and images carry their size inline.
type HTMLDialect struct{}

func (HTMLDialect) Name() string { return NameHTML }

func (h HTMLDialect) Render(bs []*Block) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		if s := h.RenderBlock(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func (h HTMLDialect) RenderBlock(b *Block) string {
	switch b.Type {
	case Paragraph:
		return "<p" + classAttr(b.ClassName) + styleAttr(alignStyle(b.Align)) + ">" + b.Inner + "</p>"

	case Heading:
		tag := fmt.Sprintf("h%d", b.Level)
		return "<" + tag + attrPair("id", b.Anchor) + classAttr(b.ClassName) + styleAttr(alignStyle(b.Align)) + ">" +
			b.Inner + "</" + tag + ">"

	case Image:
		var size []string
		if b.Width > 0 {
			size = append(size, "width: "+strconv.Itoa(b.Width)+"px;")
		}
		if b.Height > 0 {
			size = append(size, "height: "+strconv.Itoa(b.Height)+"px;")
		}
		img := imgTag(b, strings.Join(size, " "))
		if b.Link != "" {
			img = `<a href="` + document.EscapeAttr(b.Link) + `">` + img + "</a>"
		}
		s := "<figure" + classAttr("image", b.ClassName) + styleAttr(alignStyle(b.Align)) + ">" + img
		if b.Caption != "" {
			s += "<figcaption>" + b.Caption + "</figcaption>"
		}
		return s + "</figure>"

	case Embed:
		s := `<figure class="video-embed"><iframe src="` + document.EscapeAttr(PlayerURL(b.URL)) +
			`" width="560" height="315" frameborder="0" allowfullscreen=""></iframe>`
		if b.Caption != "" {
			s += "<figcaption>" + b.Caption + "</figcaption>"
		}
		return s + "</figure>"

	case Columns:
		parts := []string{"<div" + classAttr("row", b.ClassName) + ">"}
		for _, c := range b.Children {
			parts = append(parts, h.RenderBlock(c))
		}
		parts = append(parts, "</div>")
		return strings.Join(parts, "\n")

	case Column:
		return "<div" + classAttr("column", b.ClassName) + ">\n" + h.Render(b.Children) + "\n</div>"

	case List:
		tag := "ul"
		if b.Ordered {
			tag = "ol"
		}
		return "<" + tag + classAttr(b.ClassName) + ">" + b.Inner + "</" + tag + ">"

	case Table:
		return "<table" + classAttr(b.ClassName) + ` style="table-layout: fixed;">` + b.Inner + "</table>"

	case Buttons:
		parts := []string{"<div" + classAttr("buttons") + styleAttr(alignStyle(b.Align)) + ">"}
		for _, c := range b.Children {
			parts = append(parts, h.RenderBlock(c))
		}
		parts = append(parts, "</div>")
		return strings.Join(parts, "\n")

	case Button:
		var style string
		if b.Color != "" {
			style = "background-color: " + b.Color + ";"
		}
		return "<a" + classAttr("button", b.ClassName) + attrPair("href", b.URL) + styleAttr(document.EscapeAttr(style)) + ">" + b.Text + "</a>"

	case Separator:
		return "<hr>"

	case AnchorTarget:
		return `<div id="` + document.EscapeAttr(b.Anchor) + `" class="anchor-target"></div>`

	case HTML:
		return b.Inner

	case Quote:
		return "<blockquote" + classAttr(b.ClassName) + "><p>" + b.Inner + "</p></blockquote>"

	case Reusable:
		return `<div class="reusable-block" data-ref="` + strconv.Itoa(b.Ref) + `"></div>`
	}
	return ""
}

// TableWrapped treats a fixed-layout style as the wrapper, since plain HTML
// tables have no enclosing marker.
func (HTMLDialect) TableWrapped(table *html.Node) bool {
	return strings.Contains(strings.ReplaceAll(document.Attr(table, "style"), " ", ""), "table-layout:fixed")
}

func (HTMLDialect) EmbedSelector() string { return "figure.video-embed" }

func (HTMLDialect) RewriteLinkTargets(text string, _ func(string) bool) string { return text }
