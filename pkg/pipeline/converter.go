package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/docxpress/internal/logger"
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/cleaner"
	"github.com/jmylchreest/docxpress/pkg/document"
	"github.com/jmylchreest/docxpress/pkg/profile"
)

// Converter turns word-processor HTML into one publishing dialect.
// It implements the cleaner.Cleaner interface so it can be chained.
// A Converter holds no per-document state and is safe for concurrent use;
// Stats refers to the last conversion only.
type Converter struct {
	config   *Config
	dialect  blocks.Dialect
	profile  *profile.Profile
	rules    []Rule
	cleaners cleaner.Cleaner

	mu    sync.Mutex
	stats *Stats
}

// New creates a Converter for cfg. If cfg is nil, DefaultConfig() is used.
// The dialect and profile are resolved here, so unknown names fail before any
// document is read.
func New(cfg *Config) (*Converter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d, ok := blocks.Lookup(cfg.Dialect)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDialect, cfg.Dialect, strings.Join(blocks.Names(), ", "))
	}

	var p *profile.Profile
	if cfg.Profile != "" {
		table := cfg.Profiles
		if table == nil {
			table = profile.Builtin()
		}
		found, err := table.Lookup(cfg.Profile)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, cfg.Profile)
		}
		p = found
	}

	c := &Converter{
		config:  cfg,
		dialect: d,
		profile: p,
		rules:   defaultRules(),
	}
	if cfg.Cleanup {
		c.cleaners = cleaner.DefaultChain(d)
	} else {
		c.cleaners = cleaner.NewNoop()
	}
	return c, nil
}

// Name returns the converter name for logging.
func (c *Converter) Name() string {
	return "docxpress:" + c.dialect.Name()
}

// Dialect returns the resolved output dialect.
func (c *Converter) Dialect() blocks.Dialect {
	return c.dialect
}

// Profile returns the resolved site profile, or nil.
func (c *Converter) Profile() *profile.Profile {
	return c.profile
}

// Clean converts markup. It implements cleaner.Cleaner.
func (c *Converter) Clean(markup string) (string, error) {
	return c.Convert(markup)
}

// Convert converts markup and returns the final content.
func (c *Converter) Convert(markup string) (string, error) {
	result, err := c.ConvertWithStats(markup)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// ConvertWithStats runs every phase and returns the content together with
// the classified blocks, stats and warnings. Precondition failures return an
// error before any phase runs; node-level problems only produce warnings.
func (c *Converter) ConvertWithStats(markup string) (*Result, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrNoDocument
	}
	if c.dialect.Name() == blocks.NameGutenberg && c.profile == nil {
		return nil, ErrNoProfile
	}

	startTime := time.Now()
	result := &Result{Stats: NewStats()}
	result.Stats.InputBytes = len(markup)

	parseStart := time.Now()
	tree, err := document.Parse(markup)
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	ctx := newContext(c.config, c.dialect, c.profile, result)

	normalizeStart := time.Now()
	c.normalize(ctx, tree)
	result.Stats.NormalizeDuration = time.Since(normalizeStart)

	classifyStart := time.Now()
	bs := c.classify(ctx, tree)
	result.Stats.ClassifyDuration = time.Since(classifyStart)
	result.Blocks = bs
	result.Stats.RecordBlocks(bs)

	renderStart := time.Now()
	content := c.dialect.Render(bs)
	result.Stats.RenderDuration = time.Since(renderStart)

	cleanupStart := time.Now()
	cleaned, err := c.cleaners.Clean(content)
	result.Stats.CleanupDuration = time.Since(cleanupStart)
	if err != nil {
		result.AddWarning("cleanup", "cleanup failed, keeping rendered markup", err.Error())
		logger.Warn("cleanup failed", "error", err)
	} else {
		content = cleaned
	}

	if c.config.Finalize && c.profile != nil {
		finalizeStart := time.Now()
		f := NewFinalizer(c.dialect, c.profile)
		finalized, err := f.Clean(content)
		if err != nil {
			result.AddWarning("finalize", "finalize failed, keeping cleaned markup", err.Error())
			logger.Warn("finalize failed", "error", err)
		} else {
			content = finalized
			result.Stats.LinksRewritten = f.LinksRewritten()
		}
		result.Stats.FinalizeDuration = time.Since(finalizeStart)
	}

	result.Content = content
	result.Stats.OutputBytes = len(content)
	result.Stats.TotalDuration = time.Since(startTime)
	c.mu.Lock()
	c.stats = result.Stats
	c.mu.Unlock()

	logger.Info("converted document",
		"dialect", c.dialect.Name(),
		"profile", c.profileID(),
		"blocks", result.Stats.TotalBlocks(),
		"input_bytes", result.Stats.InputBytes,
		"output_bytes", result.Stats.OutputBytes,
		"warnings", len(result.Warnings))

	return result, nil
}

// Stats returns the stats from the last conversion.
func (c *Converter) Stats() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Converter) profileID() string {
	if c.profile == nil {
		return ""
	}
	return c.profile.ID
}
