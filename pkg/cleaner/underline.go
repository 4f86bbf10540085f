package cleaner

import (
	"regexp"
	"strings"

	"github.com/jmylchreest/docxpress/pkg/document"
)

var underlineDecl = regexp.MustCompile(`(?i)text-decoration(-line)?\s*:[^;]*underline`)

const underlineCSS = "text-decoration: underline;"

// UnderlineStyle gives every <u> element and underline-classed span an
// explicit inline underline style, since some destinations reset <u>.
type UnderlineStyle struct{}

// NewUnderlineStyle creates the underline pass.
func NewUnderlineStyle() *UnderlineStyle {
	return &UnderlineStyle{}
}

// Clean adds the underline style where missing.
func (c *UnderlineStyle) Clean(markup string) (string, error) {
	return cleanTree(c, markup)
}

// Name returns the pass name.
func (c *UnderlineStyle) Name() string {
	return "underline-style"
}

// CleanTree adds the underline style where missing.
func (c *UnderlineStyle) CleanTree(tree *document.Tree) int {
	changed := 0
	for _, n := range tree.Find("u, span.underline").Nodes {
		style := strings.TrimSpace(document.Attr(n, "style"))
		if underlineDecl.MatchString(style) {
			continue
		}
		if style != "" && !strings.HasSuffix(style, ";") {
			style += ";"
		}
		if style != "" {
			style += " "
		}
		document.SetAttr(n, "style", style+underlineCSS)
		changed++
	}
	return changed
}
