package pipeline

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/net/html"

	"github.com/jmylchreest/docxpress/internal/logger"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
	"github.com/jmylchreest/docxpress/pkg/profile"
)

// Context is the mutable state of one conversion run. It is created per call
// and never shared between conversions.
type Context struct {
	Profile    *profile.Profile
	Dialect    blocks.Dialect
	ExportMode bool

	// FirstListSeen flips once the first list has been turned into the menu.
	FirstListSeen bool

	// HeadingIndex counts emitted headings; the first one gets no separator.
	HeadingIndex int

	// ReferencesActive is set by a references paragraph and styles what follows.
	ReferencesActive bool

	result   *Result
	out      []*blocks.Block
	lastRule string
	images   int
	debug    bool
}

func newContext(cfg *Config, d blocks.Dialect, p *profile.Profile, result *Result) *Context {
	return &Context{
		Profile:    p,
		Dialect:    d,
		ExportMode: cfg.ExportMode,
		result:     result,
		debug:      cfg.Debug,
	}
}

// Blocks returns the blocks emitted so far.
func (c *Context) Blocks() []*blocks.Block {
	return c.out
}

func (c *Context) emit(bs ...*blocks.Block) {
	for _, b := range bs {
		if b != nil {
			c.out = append(c.out, b)
		}
	}
}

// last returns the most recently emitted top-level block, or nil.
func (c *Context) last() *blocks.Block {
	if len(c.out) == 0 {
		return nil
	}
	return c.out[len(c.out)-1]
}

func (c *Context) warn(phase, msg string, n *html.Node) {
	excerpt := ""
	if n != nil {
		excerpt = truncate(document.Text(n), 60)
	}
	c.result.AddWarning(phase, msg, excerpt)
	logger.Warn(msg, "phase", phase, "node", excerpt)
}

func (c *Context) drop(reason string, n *html.Node) {
	c.result.Stats.RecordDrop(reason)
	if c.debug {
		logger.Debug("node dropped", "reason", reason, "node", truncate(document.Text(n), 60))
	}
}

// imageSource returns the src to emit. In export mode embedded data URIs are
// replaced with numbered placeholder file names so the markup stays small.
func (c *Context) imageSource(src string) string {
	if !c.ExportMode || !strings.HasPrefix(src, "data:") {
		return src
	}
	c.images++
	ext := ".png"
	if semi := strings.IndexAny(src, ";,"); semi > len("data:") {
		if exts, err := mime.ExtensionsByType(src[len("data:"):semi]); err == nil && len(exts) > 0 {
			ext = exts[0]
			if ext == ".jpe" || ext == ".jfif" {
				ext = ".jpg"
			}
		}
	}
	return fmt.Sprintf("image-%02d%s", c.images, ext)
}

func (c *Context) ctaURL() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.CTAURL
}

func (c *Context) buttonColor() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.ButtonColor
}

func (c *Context) headingClass() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.HeadingClass
}

func (c *Context) listClass() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.ListClass
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
