package cleaner

import (
	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/document"
)

// NormalizeTable enforces the header/body shape of a table in place: exactly
// one header row in a thead, every other row in a single tbody, header-type
// cells only in the header. A table without rows is left alone. Returns true
// when the table changed.
func NormalizeTable(table *html.Node) bool {
	before := document.OuterHTML(table)

	var headRows, bodyRows []*html.Node
	for _, tr := range rows(table) {
		if document.IsElement(tr.Parent, "thead") {
			headRows = append(headRows, tr)
		} else {
			bodyRows = append(bodyRows, tr)
		}
	}
	if len(headRows)+len(bodyRows) == 0 {
		return false
	}
	if len(headRows) == 0 {
		headRows, bodyRows = bodyRows[:1], bodyRows[1:]
	} else if len(headRows) > 1 {
		bodyRows = append(append([]*html.Node{}, headRows[1:]...), bodyRows...)
		headRows = headRows[:1]
	}

	for _, tr := range append(append([]*html.Node{}, headRows...), bodyRows...) {
		document.Remove(tr)
	}
	for _, sec := range sections(table) {
		document.Remove(sec)
	}

	thead := document.NewElement("thead")
	for _, tr := range headRows {
		setCellTag(tr, "th")
		thead.AppendChild(tr)
	}
	tbody := document.NewElement("tbody")
	for _, tr := range bodyRows {
		setCellTag(tr, "td")
		tbody.AppendChild(tr)
	}

	// caption and colgroup stay in front of the sections
	table.AppendChild(thead)
	table.AppendChild(tbody)

	return document.OuterHTML(table) != before
}

// rows returns the rows that belong to table itself, not to nested tables.
func rows(table *html.Node) []*html.Node {
	var out []*html.Node
	document.Walk(table, func(n *html.Node) bool {
		if n != table && document.IsElement(n, "table") {
			return false
		}
		if document.IsElement(n, "tr") {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

func sections(table *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range document.Children(table) {
		if document.IsElement(c, "thead", "tbody", "tfoot") {
			out = append(out, c)
		}
	}
	return out
}

func setCellTag(tr *html.Node, tag string) {
	for _, c := range document.Children(tr) {
		if document.IsElement(c, "td", "th") && c.Data != tag {
			document.Rename(c, tag)
			document.RemoveAttr(c, "scope")
		}
	}
}

// TableNormalizer applies NormalizeTable to every table in the markup.
type TableNormalizer struct{}

// NewTableNormalizer creates the block-table normalizer pass.
func NewTableNormalizer() *TableNormalizer {
	return &TableNormalizer{}
}

// Clean normalizes all tables.
func (c *TableNormalizer) Clean(content string) (string, error) {
	return cleanTree(c, content)
}

// CleanTree normalizes all tables of tree.
func (c *TableNormalizer) CleanTree(tree *document.Tree) int {
	changed := 0
	for _, t := range document.Elements(tree.Root, "table") {
		if NormalizeTable(t) {
			changed++
		}
	}
	return changed
}

// Name returns the pass name.
func (c *TableNormalizer) Name() string {
	return "table-normalizer"
}
