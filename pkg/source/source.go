// Package source loads upstream documents (.docx, Markdown, HTML) and renders
// them as the word-processor HTML the converter reads.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for a file extension no source handles.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrConversionFailed wraps failures of an upstream parser.
	ErrConversionFailed = errors.New("source conversion failed")
)

// Source turns an upstream document into rich-text HTML.
type Source interface {
	// Load reads the whole document from r.
	Load(ctx context.Context, r io.Reader, opts Options) (string, error)

	// Type names the source for logging and reports.
	Type() string
}

// Options controls how sources render embedded media.
type Options struct {
	// ExportMode references embedded images by their media path instead of
	// inlining them as data URIs.
	ExportMode bool
}

var byExtension = map[string]func() Source{
	".docx":     func() Source { return &DOCX{} },
	".md":       func() Source { return NewMarkdown() },
	".markdown": func() Source { return NewMarkdown() },
	".html":     func() Source { return &HTML{} },
	".htm":      func() Source { return &HTML{} },
}

// ForFile returns the source for filename's extension.
func ForFile(filename string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	newSource, ok := byExtension[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return newSource(), nil
}

// ForType returns the source registered under name ("docx", "markdown",
// "html").
func ForType(name string) (Source, error) {
	switch strings.ToLower(name) {
	case "docx":
		return &DOCX{}, nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "html", "htm":
		return &HTML{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// IsSupported reports whether filename has an extension a source handles.
func IsSupported(filename string) bool {
	_, ok := byExtension[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extensions lists the supported file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(byExtension))
	for ext := range byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func conversionError(kind string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConversionFailed, kind, err)
}
