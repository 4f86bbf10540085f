package source

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// HTML reads word-processor HTML exports. Full documents are reduced to their
// body; legacy encodings declared in a meta tag are decoded to UTF-8.
type HTML struct{}

// Type returns "html".
func (h *HTML) Type() string { return "html" }

// Load returns the body markup of the document in r.
func (h *HTML) Load(ctx context.Context, r io.Reader, _ Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	utf8, err := charset.NewReader(r, "text/html")
	if err != nil {
		return "", conversionError("decode html", err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8)
	if err != nil {
		return "", conversionError("parse html", err)
	}

	body := doc.Find("body").First()
	body.Find("script, style, meta, link, title").Remove()
	markup, err := body.Html()
	if err != nil {
		return "", conversionError("render html", err)
	}
	return strings.TrimSpace(markup), nil
}
