package pipeline

import (
	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/internal/logger"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// NodeKind is the coarse kind of a top-level node; it selects which rules are
// considered.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindParagraph
	KindHeading
	KindList
	KindTable
)

func (k NodeKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	default:
		return "other"
	}
}

// KindOf classifies a node.
func KindOf(n *html.Node) NodeKind {
	switch {
	case document.IsElement(n, "p"):
		return KindParagraph
	case document.IsHeading(n):
		return KindHeading
	case document.IsElement(n, "ul", "ol"):
		return KindList
	case document.IsElement(n, "table"):
		return KindTable
	}
	return KindOther
}

// Rule is one entry of the classification table. Rules of the node's kind are
// tried in order and the first whose Match accepts the node builds its
// blocks. A nil result from Build drops the node. Build may consume following
// siblings by detaching them; it must not detach the node itself.
type Rule struct {
	Name  string
	Kind  NodeKind
	Match func(*Context, *html.Node) bool
	Build func(*Context, *html.Node) []*blocks.Block
}

func always(*Context, *html.Node) bool { return true }

// defaultRules returns the classification table. Paragraph rules come first
// and their order is significant.
func defaultRules() []Rule {
	rules := paragraphRules()
	return append(rules,
		Rule{Name: "heading", Kind: KindHeading, Match: always, Build: buildHeading},
		Rule{Name: "list", Kind: KindList, Match: always, Build: buildList},
		Rule{Name: "table", Kind: KindTable, Match: always, Build: buildTable},
		Rule{Name: "passthrough", Kind: KindOther, Match: always, Build: buildPassthrough},
	)
}

// RuleNames lists the rule names in evaluation order.
func (c *Converter) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// dispatch runs the first matching rule for n and returns its blocks and name.
func (c *Converter) dispatch(ctx *Context, n *html.Node) ([]*blocks.Block, string) {
	kind := KindOf(n)
	for _, r := range c.rules {
		if r.Kind != kind || !r.Match(ctx, n) {
			continue
		}
		return r.Build(ctx, n), r.Name
	}
	return nil, ""
}

// classify walks the top-level nodes in document order and emits blocks.
func (c *Converter) classify(ctx *Context, tree *document.Tree) []*blocks.Block {
	for n := firstElement(tree.Root); n != nil; n = document.NextElement(n) {
		bs, rule := c.dispatch(ctx, n)
		ctx.result.Stats.RecordRule(rule)
		if len(bs) == 0 {
			ctx.drop(rule, n)
		}
		if c.config.Debug {
			logger.Debug("rule fired", "rule", rule, "kind", KindOf(n).String(), "blocks", len(bs))
		}
		ctx.emit(bs...)
		ctx.lastRule = rule
	}
	return ctx.out
}

func buildPassthrough(ctx *Context, n *html.Node) []*blocks.Block {
	if !document.HasText(n) && !hasImage(n) {
		return nil
	}
	return []*blocks.Block{{Type: blocks.HTML, Inner: document.OuterHTML(n)}}
}
