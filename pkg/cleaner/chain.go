package cleaner

import (
	"strings"

	"github.com/jmylchreest/docxpress/pkg/blocks"
	"github.com/jmylchreest/docxpress/pkg/document"
)

// ChainCleaner applies multiple cleaners in sequence.
// Consecutive tree cleaners share one parsed tree.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a new cleaner that applies multiple cleaners in sequence.
// Cleaners are applied in the order provided.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    cleaner.NewNoise(),
//	    cleaner.NewTableNormalizer(),
//	)
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	return &ChainCleaner{
		cleaners: cleaners,
	}
}

// Clean applies all cleaners in sequence.
func (c *ChainCleaner) Clean(content string) (string, error) {
	var (
		tree    *document.Tree
		changed bool
		err     error
	)
	flush := func() {
		if tree != nil && changed {
			content = tree.HTML()
		}
		tree, changed = nil, false
	}

	for _, cleaner := range c.cleaners {
		tc, ok := cleaner.(TreeCleaner)
		if !ok {
			flush()
			content, err = cleaner.Clean(content)
			if err != nil {
				return "", err
			}
			continue
		}
		if tree == nil {
			if tree, err = document.Parse(content); err != nil {
				return "", err
			}
		}
		if tc.CleanTree(tree) > 0 {
			changed = true
		}
	}
	flush()
	return content, nil
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, cleaner := range c.cleaners {
		names[i] = cleaner.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}

// DefaultChain returns the cleanup passes for a dialect in their standard
// order. Noise goes first so the table and video passes see the final
// wrapper structure.
func DefaultChain(d blocks.Dialect) *ChainCleaner {
	return NewChain(
		NewNoise(),
		NewTableRescue(d),
		NewTableNormalizer(),
		NewVideoLinks(d),
		NewUnderlineStyle(),
	)
}
