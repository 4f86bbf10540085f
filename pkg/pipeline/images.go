package pipeline

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// imageBlock builds an image block from an <img>. A wrapping link becomes the
// image link.
func (c *Context) imageBlock(img *html.Node) *blocks.Block {
	b := &blocks.Block{
		Type:  blocks.Image,
		URL:   c.imageSource(document.Attr(img, "src")),
		Alt:   strings.TrimSpace(document.Attr(img, "alt")),
		Align: blocks.AlignCenter,
	}
	if a := document.Closest(img, "a"); a != nil {
		b.Link = document.Attr(a, "href")
	}
	b.Width = pixels(document.Attr(img, "width"))
	b.Height = pixels(document.Attr(img, "height"))
	if b.URL == "" {
		c.warn("classify", "image without source", img)
	}
	return b
}

// imageBlocks returns a single image block for one image and a row of
// single-image columns for several. alt and caption go to the first image.
func (c *Context) imageBlocks(imgs []*html.Node, alt, caption string) []*blocks.Block {
	switch len(imgs) {
	case 0:
		return nil
	case 1:
		b := c.imageBlock(imgs[0])
		if alt != "" {
			b.Alt = alt
		}
		b.Caption = caption
		return []*blocks.Block{b}
	}

	row := &blocks.Block{Type: blocks.Columns, ClassName: "image-row"}
	for i, img := range imgs {
		b := c.imageBlock(img)
		if i == 0 {
			if alt != "" {
				b.Alt = alt
			}
			b.Caption = caption
		}
		row.Children = append(row.Children, &blocks.Block{Type: blocks.Column, Children: []*blocks.Block{b}})
	}
	return []*blocks.Block{row}
}

func pixels(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
