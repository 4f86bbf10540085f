package pipeline

import (
	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/cleaner"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// buildTable routes a table to one of three shapes. Tables with a click-here
// cell become a button group. Tables with fewer than two image cells stay a
// table. Otherwise the image cells are laid out as rows of columns. Tables
// with no rows or fewer than two content cells are dropped.
func buildTable(ctx *Context, n *html.Node) []*blocks.Block {
	trs := document.Elements(n, "tr")
	if len(trs) == 0 {
		ctx.warn("classify", "table without rows dropped", n)
		return nil
	}

	var cells []cell
	widest := 0
	for _, tr := range trs {
		tds := 0
		for _, td := range document.Children(tr) {
			if !document.IsElement(td, "td", "th") {
				continue
			}
			tds++
			if c := parseCell(td); c.hasContent() {
				cells = append(cells, c)
			}
		}
		widest = max(widest, tds)
	}
	if len(cells) < 2 {
		return nil
	}

	if bs := buttonGroup(ctx, cells); bs != nil {
		return bs
	}

	// images left in front of the table by a guarded paragraph or heading
	var imageCells []cell
	var leading []*html.Node
	if prev := document.PrevElement(n); document.IsElement(prev, "p") || document.IsHeading(prev) {
		leading = images(prev)
	}
	for _, img := range leading {
		imageCells = append(imageCells, imageCell(img))
	}
	tableImages := 0
	for _, c := range cells {
		if len(c.imgs) > 0 {
			imageCells = append(imageCells, c)
			tableImages++
		}
	}

	if tableImages < 2 {
		out := ctx.imageBlocks(leading, "", "")
		return append(out, genericTable(ctx, n))
	}

	perRow := 2
	if widest > 2 {
		perRow = 3
	}
	var out []*blocks.Block
	for i := 0; i < len(imageCells); i += perRow {
		row := &blocks.Block{Type: blocks.Columns, ClassName: "image-row"}
		for _, c := range imageCells[i:min(i+perRow, len(imageCells))] {
			row.Children = append(row.Children, c.column(ctx))
		}
		out = append(out, row)
	}
	return out
}

// buttonGroup returns one button per click-here cell, or nil when the table
// has none.
func buttonGroup(ctx *Context, cells []cell) []*blocks.Block {
	group := &blocks.Block{Type: blocks.Buttons, Align: blocks.AlignCenter}
	clicks := 0
	for _, c := range cells {
		text := document.Text(c.node)
		if !clickKeywords.Has(text) {
			continue
		}
		clicks++
		url := c.link
		if ls := links(c.node); len(ls) > 0 {
			url = document.Attr(ls[0], "href")
		}
		if url == "" {
			url = ctx.ctaURL()
		}
		if url == "" {
			ctx.warn("classify", "click-here cell without link or profile url; button omitted", c.node)
			continue
		}
		group.Children = append(group.Children, &blocks.Block{
			Type:  blocks.Button,
			URL:   url,
			Text:  document.EscapeText(text),
			Color: ctx.buttonColor(),
		})
	}
	switch {
	case clicks == 0:
		return nil
	case len(group.Children) == 0:
		return []*blocks.Block{}
	}
	return []*blocks.Block{group}
}

// genericTable keeps the table markup with a single header row, layout
// attributes removed and images rewritten for export.
func genericTable(ctx *Context, n *html.Node) *blocks.Block {
	for _, img := range images(n) {
		document.SetAttr(img, "src", ctx.imageSource(document.Attr(img, "src")))
	}
	for _, el := range document.Elements(n, "colgroup", "col", "tr", "td", "th") {
		document.RemoveAttr(el, "style")
		document.RemoveAttr(el, "width")
	}
	cleaner.NormalizeTable(n)
	return &blocks.Block{Type: blocks.Table, Inner: document.InnerHTML(n)}
}
