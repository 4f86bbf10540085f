package pipeline

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
	"github.com/jmylchreest/docxpress/pkg/profile"
)

const (
	externalTarget = "_blank"
	externalRel    = "noopener noreferrer"
)

// Finalizer applies a site profile to rendered markup: links leaving the site
// open in a new tab with a safe rel, and the profile's reusable block is
// appended once. It implements cleaner.Cleaner.
type Finalizer struct {
	dialect blocks.Dialect
	profile *profile.Profile

	// rewritten counts links changed by the last Clean.
	rewritten int
}

// NewFinalizer creates a finalizer. A nil profile makes it a no-op.
func NewFinalizer(d blocks.Dialect, p *profile.Profile) *Finalizer {
	return &Finalizer{dialect: d, profile: p}
}

// Name returns the pass name.
func (f *Finalizer) Name() string {
	return "finalize"
}

// Clean rewrites links and appends the trailing block.
func (f *Finalizer) Clean(markup string) (string, error) {
	f.rewritten = 0
	if f.profile == nil {
		return markup, nil
	}

	tree, err := document.Parse(markup)
	if err != nil {
		return "", err
	}
	if f.rewriteLinks(tree.Root) > 0 {
		markup = tree.HTML()
	}
	return f.appendTrailing(markup), nil
}

// LinksRewritten returns the number of links changed by the last Clean.
func (f *Finalizer) LinksRewritten() int {
	return f.rewritten
}

func (f *Finalizer) external(href string) bool {
	return !f.profile.IsInternal(href)
}

func (f *Finalizer) rewriteLinks(root *html.Node) int {
	changed := 0
	document.Walk(root, func(n *html.Node) bool {
		switch {
		case n.Type == html.TextNode:
			if rewritten := f.dialect.RewriteLinkTargets(n.Data, f.external); rewritten != n.Data {
				n.Data = rewritten
				changed++
				f.rewritten++
			}
		case document.IsElement(n, "a"):
			href := document.Attr(n, "href")
			if !f.external(href) {
				return true
			}
			if document.Attr(n, "target") != externalTarget || document.Attr(n, "rel") != externalRel {
				document.SetAttr(n, "target", externalTarget)
				document.SetAttr(n, "rel", externalRel)
				changed++
				f.rewritten++
			}
		}
		return true
	})
	return changed
}

// appendTrailing adds the profile's reusable block unless the markup already
// ends with it.
func (f *Finalizer) appendTrailing(markup string) string {
	if f.profile.TrailingBlockRef <= 0 {
		return markup
	}
	trailing := f.dialect.RenderBlock(&blocks.Block{Type: blocks.Reusable, Ref: f.profile.TrailingBlockRef})
	trimmed := strings.TrimRight(markup, "\n")
	if strings.HasSuffix(trimmed, trailing) {
		return markup
	}
	sep := "\n"
	if f.dialect.Name() == blocks.NameGutenberg {
		sep = "\n\n"
	}
	if trimmed == "" {
		return trailing
	}
	return trimmed + sep + trailing
}
