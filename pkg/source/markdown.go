package source

import (
	"bytes"
	"context"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders Markdown with goldmark. Raw HTML in the input is kept so
// writers can mix in alignment or underline markup.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a Markdown source with GFM tables, strikethrough and
// autolinks.
func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
	return &Markdown{md: md}
}

// Type returns "markdown".
func (m *Markdown) Type() string { return "markdown" }

// Load converts the Markdown in r to HTML. goldmark does not take a context,
// so the conversion runs in a goroutine and ctx only bounds the wait.
func (m *Markdown) Load(ctx context.Context, r io.Reader, _ Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return "", conversionError("read markdown", err)
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		if err := m.md.Convert(src, &buf); err != nil {
			done <- result{err: conversionError("markdown", err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
