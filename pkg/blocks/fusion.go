package blocks

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// Fusion writes page-builder shortcodes: the article sits in a single
// container/row/column, image rows become inner rows with fractional
// columns, and text is carried inside [fusion_text] elements.
type Fusion struct{}

func (Fusion) Name() string { return NameFusion }

func (f Fusion) Render(bs []*Block) string {
	parts := make([]string, 0, len(bs)+2)
	parts = append(parts, `[fusion_builder_container type="flex" hundred_percent="no"][fusion_builder_row][fusion_builder_column type="1_1"]`)
	for _, b := range bs {
		if s := f.RenderBlock(b); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, `[/fusion_builder_column][/fusion_builder_row][/fusion_builder_container]`)
	return strings.Join(parts, "\n")
}

func (f Fusion) RenderBlock(b *Block) string {
	switch b.Type {
	case Paragraph:
		return fusionText("<p" + classAttr(b.ClassName) + styleAttr(alignStyle(b.Align)) + ">" + breaksToNewlines(b.Inner) + "</p>")

	case Heading:
		align := b.Align
		if align == "" {
			align = AlignLeft
		}
		return `[fusion_title title_type="text" size="` + strconv.Itoa(b.Level) + `" content_align="` + align + `"` +
			attrPair("class", b.ClassName) + attrPair("id", b.Anchor) + "]" + breaksToNewlines(b.Inner) + "[/fusion_title]"

	case Image:
		align := b.Align
		if align == "" {
			align = "none"
		}
		s := `[fusion_imageframe lightbox="no" align="` + align + `"` + attrPair("alt", b.Alt) + attrPair("class", b.ClassName)
		if b.Link != "" {
			s += ` link="` + document.EscapeAttr(b.Link) + `" linktarget="_self"`
		}
		s += "]" + document.EscapeText(b.URL) + "[/fusion_imageframe]"
		if b.Caption != "" {
			s += "\n" + fusionText(`<p class="image-caption" style="text-align: center;">`+breaksToNewlines(b.Caption)+"</p>")
		}
		return s

	case Embed:
		s := `[fusion_youtube id="` + document.EscapeAttr(b.URL) + `" alignment="center" width="" height="" autoplay="false"][/fusion_youtube]`
		if b.Caption != "" {
			s += "\n" + fusionText(`<p class="video-caption" style="text-align: center;">`+breaksToNewlines(b.Caption)+"</p>")
		}
		return s

	case Columns:
		fraction := columnFraction(len(b.Children), "_")
		parts := []string{"[fusion_builder_row_inner" + attrPair("class", b.ClassName) + "]"}
		for _, c := range b.Children {
			inner := make([]string, 0, len(c.Children))
			for _, cb := range c.Children {
				inner = append(inner, f.RenderBlock(cb))
			}
			parts = append(parts, `[fusion_builder_column_inner type="`+fraction+`"]`, strings.Join(inner, "\n"), "[/fusion_builder_column_inner]")
		}
		parts = append(parts, "[/fusion_builder_row_inner]")
		return strings.Join(parts, "\n")

	case Column:
		return f.Render(b.Children)

	case List:
		tag := "ul"
		if b.Ordered {
			tag = "ol"
		}
		return fusionText("<" + tag + classAttr(b.ClassName) + ">" + breaksToNewlines(b.Inner) + "</" + tag + ">")

	case Table:
		return `[fusion_table fusion_table_type="1"]<table` + classAttr(b.ClassName) + ` style="table-layout: fixed;">` +
			b.Inner + "</table>[/fusion_table]"

	case Buttons:
		parts := make([]string, 0, len(b.Children))
		for _, c := range b.Children {
			c := *c
			if c.Align == "" {
				c.Align = b.Align
			}
			parts = append(parts, f.RenderBlock(&c))
		}
		return strings.Join(parts, "\n")

	case Button:
		align := b.Align
		if align == "" {
			align = AlignCenter
		}
		color := b.Color
		if color == "" {
			color = "default"
		}
		return `[fusion_button link="` + document.EscapeAttr(b.URL) + `" target="_self" alignment="` + align +
			`" color="` + document.EscapeAttr(color) + `"` + attrPair("class", b.ClassName) + "]" + b.Text + "[/fusion_button]"

	case Separator:
		return `[fusion_separator style_type="single solid" top_margin="20px" bottom_margin="20px" /]`

	case AnchorTarget:
		return `[fusion_menu_anchor name="` + document.EscapeAttr(b.Anchor) + `" /]`

	case HTML:
		return "[fusion_code]" + b.Inner + "[/fusion_code]"

	case Quote:
		return fusionText("<blockquote><p>" + breaksToNewlines(b.Inner) + "</p></blockquote>")

	case Reusable:
		return `[fusion_global id="` + strconv.Itoa(b.Ref) + `"]`
	}
	return ""
}

func (Fusion) TableWrapped(table *html.Node) bool {
	return bracketTableWrapped(table, "fusion_", "fusion_table")
}

func (Fusion) EmbedSelector() string { return "" }

func (Fusion) RewriteLinkTargets(text string, external func(string) bool) string {
	return rewriteBracketTargets(text, external)
}

func fusionText(inner string) string {
	return "[fusion_text]" + inner + "[/fusion_text]"
}

func styleAttr(style string) string {
	if style == "" {
		return ""
	}
	return ` style="` + style + `"`
}
