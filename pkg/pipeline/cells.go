package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// cell is one table cell read through the cell grammar: images, an "alt:"
// line, a "landing:" or "link:" line and free text that becomes the caption.
type cell struct {
	node    *html.Node
	imgs    []*html.Node
	alt     string
	link    string
	caption string
	styled  bool
}

func parseCell(n *html.Node) cell {
	c := cell{node: n, imgs: images(n)}
	var caption []string
	for _, line := range document.Lines(n) {
		if rest, ok := altKeywords.Prefix(line); ok {
			c.alt = rest
			continue
		}
		if rest, ok := landingKeywords.Prefix(line); ok {
			c.link = rest
			continue
		}
		caption = append(caption, line)
	}
	c.caption = strings.Join(caption, " ")
	if c.caption != "" {
		c.styled = IsCenteredLenient(n) || emphasisText(n) == c.caption
	}
	return c
}

// hasContent reports whether the cell holds text or an image.
func (c cell) hasContent() bool {
	return len(c.imgs) > 0 || document.HasText(c.node)
}

// column renders the cell as a layout column: its images followed by the
// caption paragraph. A link around the image wins over a landing line.
func (c cell) column(ctx *Context) *blocks.Block {
	col := &blocks.Block{Type: blocks.Column}
	for i, img := range c.imgs {
		b := ctx.imageBlock(img)
		if b.Link == "" {
			b.Link = c.link
		}
		if i == 0 && c.alt != "" {
			b.Alt = c.alt
		}
		col.Children = append(col.Children, b)
	}
	if c.caption == "" {
		return col
	}
	p := &blocks.Block{Type: blocks.Paragraph, Align: blocks.AlignCenter, Inner: document.EscapeText(c.caption)}
	if c.styled {
		p.ClassName = "image-caption"
		p.Inner = "<em>" + p.Inner + "</em>"
	}
	col.Children = append(col.Children, p)
	return col
}

// imageCell wraps a loose image, from a heading or paragraph in front of the
// table, as a cell of its own.
func imageCell(img *html.Node) cell {
	return cell{node: img, imgs: []*html.Node{img}}
}
