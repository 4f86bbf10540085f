package docxpress

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/docxpress/internal/logger"
	"github.com/jmylchreest/docxpress/pkg/pipeline"
	"github.com/jmylchreest/docxpress/pkg/profile"
	"github.com/jmylchreest/docxpress/pkg/source"
)

// Re-exported errors so callers need only this package.
var (
	ErrNoDocument        = pipeline.ErrNoDocument
	ErrNoProfile         = pipeline.ErrNoProfile
	ErrUnknownDialect    = pipeline.ErrUnknownDialect
	ErrUnknownProfile    = pipeline.ErrUnknownProfile
	ErrUnsupportedFormat = source.ErrUnsupportedFormat
	ErrConversionFailed  = source.ErrConversionFailed
)

// Version returns the module version of the docxpress library.
// Returns "(devel)" when built from source without version info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Result is the outcome of converting one document.
type Result struct {
	Filename     string
	Source       string
	LoadDuration time.Duration
	*pipeline.Result
}

// Docxpress is the main entry point for document conversion.
type Docxpress struct {
	config    Config
	converter *pipeline.Converter
	profiles  *profile.Table
}

// New creates a Docxpress instance. Unknown dialects or profiles and an
// unreadable profiles file fail here, before any document is read.
func New(opts ...Option) (*Docxpress, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	profiles := profile.Builtin()
	if cfg.ProfilesFile != "" {
		loaded, err := profile.LoadFile(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		profiles = loaded
	}

	pc := pipeline.DefaultConfig()
	pc.Dialect = cfg.Dialect
	pc.Profile = cfg.Profile
	pc.ExportMode = cfg.ExportMode
	pc.MergeParagraphs = cfg.MergeParagraphs
	pc.Cleanup = cfg.Cleanup
	pc.Finalize = cfg.Finalize
	pc.Profiles = profiles
	pc.Debug = cfg.Debug

	conv, err := pipeline.New(pc)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return &Docxpress{config: cfg, converter: conv, profiles: profiles}, nil
}

// Profiles returns the effective profile table.
func (d *Docxpress) Profiles() *profile.Table {
	return d.profiles
}

// Converter returns the underlying pipeline converter.
func (d *Docxpress) Converter() *pipeline.Converter {
	return d.converter
}

// Convert loads the document in r, choosing a source by filename unless one
// was configured, and converts it.
func (d *Docxpress) Convert(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	src := d.config.Source
	if src == nil {
		var err error
		if src, err = source.ForFile(filename); err != nil {
			return nil, err
		}
	}

	loadStart := time.Now()
	markup, err := src.Load(ctx, r, source.Options{ExportMode: d.config.ExportMode})
	loadDuration := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	logger.Debug("source loaded", "file", filename, "source", src.Type(), "bytes", len(markup), "duration", loadDuration)

	res, err := d.converter.ConvertWithStats(markup)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", filename, err)
	}
	return &Result{
		Filename:     filename,
		Source:       src.Type(),
		LoadDuration: loadDuration,
		Result:       res,
	}, nil
}

// ConvertString converts HTML that is already loaded.
func (d *Docxpress) ConvertString(markup string) (*Result, error) {
	res, err := d.converter.ConvertWithStats(markup)
	if err != nil {
		return nil, err
	}
	return &Result{Source: "html", Result: res}, nil
}

// ConvertFile opens path and converts it.
func (d *Docxpress) ConvertFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return d.Convert(ctx, f, filepath.Base(path))
}

// BatchResult is one entry of a Batch run.
type BatchResult struct {
	Path   string
	Result *Result
	Error  error
}

// Batch converts paths concurrently and streams results on the returned
// channel, which is closed once every path is done or ctx is cancelled.
// Results arrive in completion order.
func (d *Docxpress) Batch(ctx context.Context, paths []string) <-chan BatchResult {
	results := make(chan BatchResult, len(paths))

	go func() {
		defer close(results)

		sem := make(chan struct{}, d.config.Concurrency)
		var wg sync.WaitGroup
		for _, p := range paths {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer func() { <-sem }()
				res, err := d.ConvertFile(ctx, path)
				if err != nil {
					logger.Warn("conversion failed", "file", path, "error", err)
				}
				results <- BatchResult{Path: path, Result: res, Error: err}
			}(p)
		}
		wg.Wait()
	}()

	return results
}

// OutputName returns the file name Convert's output is conventionally written
// to: the input name with its extension replaced by the dialect's.
func OutputName(input, dialect string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch dialect {
	case "html":
		return base + ".html"
	default:
		return base + "." + dialect + ".txt"
	}
}
