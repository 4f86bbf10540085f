// Package pipeline converts word-processor HTML into a publishing dialect.
//
// A conversion runs in fixed phases: parse, normalise (boundary trim,
// underline markup, paragraph merging), classify top-level nodes into blocks
// through an ordered rule table, render the blocks in the target dialect,
// run the cleanup passes over the rendered markup, and finally apply the
// site profile (link policy and trailing block).
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/docxpress/pkg/profile"
)

// Config defines all options for a conversion.
type Config struct {
	// === Target ===

	// Dialect selects the output format: gutenberg, fusion, shortcode or html.
	Dialect string `json:"dialect" yaml:"dialect" validate:"required"`

	// Profile is the site profile id. Required for gutenberg.
	Profile string `json:"profile" yaml:"profile"`

	// ExportMode replaces embedded image data with placeholder file names.
	ExportMode bool `json:"export_mode" yaml:"export_mode"`

	// === Boundaries ===

	// StartMarker is the paragraph text that opens the article in the
	// bracket dialects. Other dialects start at the first level-1 heading.
	StartMarker string `json:"start_marker" yaml:"start_marker"`

	// EndMarker is the paragraph text from which everything is discarded.
	EndMarker string `json:"end_marker" yaml:"end_marker" validate:"required"`

	// === Phases ===

	// MergeParagraphs joins short adjacent plain paragraphs.
	MergeParagraphs bool `json:"merge_paragraphs" yaml:"merge_paragraphs"`

	// Cleanup runs the markup cleanup passes after rendering.
	Cleanup bool `json:"cleanup" yaml:"cleanup"`

	// Finalize applies the site profile's link policy and trailing block.
	Finalize bool `json:"finalize" yaml:"finalize"`

	// Profiles is the profile table to resolve Profile against. Nil means
	// the built-in table.
	Profiles *profile.Table `json:"-" yaml:"-"`

	// Debug enables per-rule debug logging.
	Debug bool `json:"debug" yaml:"debug"`
}

// Defaults for the boundary markers.
const (
	DefaultStartMarker = "start content"
	DefaultEndMarker   = "note seo writer"
)

// DefaultConfig returns the configuration used for publishing: every phase on.
func DefaultConfig() *Config {
	return &Config{
		Dialect:         "gutenberg",
		StartMarker:     DefaultStartMarker,
		EndMarker:       DefaultEndMarker,
		MergeParagraphs: true,
		Cleanup:         true,
		Finalize:        true,
	}
}

// PresetPreview returns a configuration for local previews: plain HTML with
// cleanup but without the site profile.
func PresetPreview() *Config {
	cfg := DefaultConfig()
	cfg.Dialect = "html"
	cfg.Finalize = false
	return cfg
}

// PresetRaw returns a configuration that only classifies and renders. Useful
// for inspecting what the rules did before any post-processing.
func PresetRaw() *Config {
	return &Config{
		Dialect:     "gutenberg",
		StartMarker: DefaultStartMarker,
		EndMarker:   DefaultEndMarker,
	}
}

var validate = validator.New()

// Validate checks required fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(e.Field()), e.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Merge merges another config into this one.
// Non-empty strings from other override this config; booleans are enabled
// when other enables them.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	merged := *c

	if other.Dialect != "" {
		merged.Dialect = other.Dialect
	}
	if other.Profile != "" {
		merged.Profile = other.Profile
	}
	if other.StartMarker != "" {
		merged.StartMarker = other.StartMarker
	}
	if other.EndMarker != "" {
		merged.EndMarker = other.EndMarker
	}
	if other.Profiles != nil {
		merged.Profiles = other.Profiles
	}

	if other.ExportMode {
		merged.ExportMode = true
	}
	if other.MergeParagraphs {
		merged.MergeParagraphs = true
	}
	if other.Cleanup {
		merged.Cleanup = true
	}
	if other.Finalize {
		merged.Finalize = true
	}
	if other.Debug {
		merged.Debug = true
	}

	return &merged
}
