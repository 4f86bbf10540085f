package output

import (
	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/pipeline"
)

// Report is the structured form of one conversion.
type Report struct {
	File     string             `json:"file,omitempty" yaml:"file,omitempty"`
	Source   string             `json:"source,omitempty" yaml:"source,omitempty"`
	Dialect  string             `json:"dialect" yaml:"dialect"`
	Profile  string             `json:"profile,omitempty" yaml:"profile,omitempty"`
	Content  string             `json:"content,omitempty" yaml:"content,omitempty"`
	Blocks   []*blocks.Block    `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Stats    *pipeline.Stats    `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings []pipeline.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportOption trims a report.
type ReportOption func(*Report)

// WithoutContent drops the converted markup, leaving stats and warnings.
func WithoutContent() ReportOption {
	return func(r *Report) { r.Content = "" }
}

// WithoutBlocks drops the classified blocks.
func WithoutBlocks() ReportOption {
	return func(r *Report) { r.Blocks = nil }
}

// NewReport builds a report from a pipeline result. A nil result with a
// non-nil err yields an error report.
func NewReport(file, source, dialect, profile string, res *pipeline.Result, err error, opts ...ReportOption) *Report {
	r := &Report{File: file, Source: source, Dialect: dialect, Profile: profile}
	if err != nil {
		r.Error = err.Error()
	}
	if res != nil {
		r.Content = res.Content
		r.Blocks = res.Blocks
		r.Stats = res.Stats
		r.Warnings = res.Warnings
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
