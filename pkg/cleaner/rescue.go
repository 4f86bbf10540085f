package cleaner

import (
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// TableRescue wraps tables that escaped classification in the dialect's
// table block. Cells are reduced to text with emphasis and the header/body
// shape is normalized before wrapping.
type TableRescue struct {
	dialect blocks.Dialect
	policy  *bluemonday.Policy
}

// NewTableRescue creates the bare-table pass for d.
func NewTableRescue(d blocks.Dialect) *TableRescue {
	return &TableRescue{
		dialect: d,
		policy:  cellPolicy(),
	}
}

func cellPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("em", "strong", "b", "i", "br")
	return p
}

// Clean wraps bare tables.
func (c *TableRescue) Clean(markup string) (string, error) {
	return cleanTree(c, markup)
}

// Name returns the pass name.
func (c *TableRescue) Name() string {
	return "table-rescue"
}

// CleanTree wraps bare tables and returns how many were wrapped.
func (c *TableRescue) CleanTree(tree *document.Tree) int {
	rescued := 0
	for _, t := range document.Elements(tree.Root, "table") {
		if t.Parent == nil || document.Closest(t, "table") != nil || c.dialect.TableWrapped(t) {
			continue
		}
		if err := c.rescue(t); err != nil {
			continue
		}
		rescued++
	}
	return rescued
}

func (c *TableRescue) rescue(t *html.Node) error {
	for _, cell := range document.Elements(t, "td", "th") {
		clean := c.policy.Sanitize(document.InnerHTML(cell))
		nodes, err := document.ParseFragment(clean)
		if err != nil {
			return err
		}
		for cell.FirstChild != nil {
			cell.RemoveChild(cell.FirstChild)
		}
		for _, n := range nodes {
			cell.AppendChild(n)
		}
	}
	NormalizeTable(t)
	return replaceWithMarkup(t, c.dialect.RenderBlock(&blocks.Block{
		Type:  blocks.Table,
		Inner: document.InnerHTML(t),
	}))
}
