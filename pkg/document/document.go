// Package document wraps golang.org/x/net/html and goquery with the small set of
// tree operations the conversion pipeline needs: fragment parsing that keeps
// comments in place, sibling navigation that ignores whitespace, text
// extraction, attribute and class helpers, and a renderer that leaves quotes
// in text untouched so bracket shortcodes survive a parse/render round trip.
package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tree is a parsed markup fragment. Top-level nodes are the children of Root.
type Tree struct {
	Root *html.Node
}

// Parse parses markup as a body fragment. Comments before the first element
// stay in the fragment instead of being hoisted to the document node, which a
// full-document parse would do.
func Parse(markup string) (*Tree, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	root := newBody()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Tree{Root: root}, nil
}

// ParseFragment parses markup in a body context and returns the detached
// top-level nodes.
func ParseFragment(markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), newBody())
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

func newBody() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// Doc returns a goquery document rooted at the tree.
func (t *Tree) Doc() *goquery.Document {
	return goquery.NewDocumentFromNode(t.Root)
}

// Find runs a CSS selector against the whole tree.
func (t *Tree) Find(selector string) *goquery.Selection {
	return t.Doc().Find(selector)
}

// Elements returns the top-level element nodes in order.
func (t *Tree) Elements() []*html.Node {
	return Children(t.Root)
}

// HTML renders the tree's children.
func (t *Tree) HTML() string {
	return InnerHTML(t.Root)
}

// Select wraps a single node in a goquery selection.
func Select(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// Find runs a CSS selector against the descendants of n.
func Find(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}
	return Select(n).Find(selector).Nodes
}

// Closest returns the nearest ancestor of n (n excluded) with one of the given
// tags, or nil.
func Closest(n *html.Node, tags ...string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if IsElement(p, tags...) {
			return p
		}
	}
	return nil
}
