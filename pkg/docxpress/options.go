// Package docxpress provides the public API for converting word-processor
// documents into publishing dialects.
package docxpress

import (
	"github.com/jmylchreest/docxpress/pkg/pipeline"
	"github.com/jmylchreest/docxpress/pkg/source"
)

// Config holds all docxpress configuration.
type Config struct {
	// Output settings
	Dialect    string
	Profile    string
	ExportMode bool

	// ProfilesFile is a YAML file merged over the built-in profile table.
	ProfilesFile string

	// Phase toggles
	MergeParagraphs bool
	Cleanup         bool
	Finalize        bool

	// Source overrides extension-based source selection.
	Source source.Source

	// Concurrency bounds Batch.
	Concurrency int

	Debug bool
}

// DefaultConfig returns publishing defaults: gutenberg output with every
// phase on.
func DefaultConfig() Config {
	p := pipeline.DefaultConfig()
	return Config{
		Dialect:         p.Dialect,
		MergeParagraphs: p.MergeParagraphs,
		Cleanup:         p.Cleanup,
		Finalize:        p.Finalize,
		Concurrency:     4,
	}
}

// Option configures docxpress.
type Option func(*Config)

// WithDialect sets the output dialect (gutenberg, fusion, shortcode, html).
func WithDialect(name string) Option {
	return func(c *Config) {
		c.Dialect = name
	}
}

// WithProfile sets the site profile id.
func WithProfile(id string) Option {
	return func(c *Config) {
		c.Profile = id
	}
}

// WithExportMode references images by file name instead of embedding them.
func WithExportMode(enabled bool) Option {
	return func(c *Config) {
		c.ExportMode = enabled
	}
}

// WithProfilesFile merges a YAML profile file over the built-in table.
func WithProfilesFile(path string) Option {
	return func(c *Config) {
		c.ProfilesFile = path
	}
}

// WithSource forces a source instead of choosing one by file extension.
func WithSource(s source.Source) Option {
	return func(c *Config) {
		c.Source = s
	}
}

// WithCleanup toggles the markup cleanup passes.
func WithCleanup(enabled bool) Option {
	return func(c *Config) {
		c.Cleanup = enabled
	}
}

// WithFinalize toggles the site profile link policy and trailing block.
func WithFinalize(enabled bool) Option {
	return func(c *Config) {
		c.Finalize = enabled
	}
}

// WithMergeParagraphs toggles joining short adjacent paragraphs.
func WithMergeParagraphs(enabled bool) Option {
	return func(c *Config) {
		c.MergeParagraphs = enabled
	}
}

// WithConcurrency sets how many documents Batch converts at once.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}

// WithDebug enables per-rule debug logging.
func WithDebug(enabled bool) Option {
	return func(c *Config) {
		c.Debug = enabled
	}
}
