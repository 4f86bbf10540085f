// Package cleaner provides the cleanup passes run over converted markup.
// Every pass repairs one class of leftover artifact and is idempotent:
// running it on its own output changes nothing.
package cleaner

import (
	"github.com/jmylchreest/docxpress/pkg/document"
)

// Cleaner transforms serialized markup into a cleaner form of the same dialect.
type Cleaner interface {
	// Clean transforms the input markup.
	Clean(markup string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}

// TreeCleaner is a Cleaner that can work on an already parsed tree. A chain
// made only of tree cleaners parses the markup once and renders it once.
type TreeCleaner interface {
	Cleaner

	// CleanTree modifies tree in place and returns the number of changes.
	CleanTree(tree *document.Tree) int
}

// cleanTree implements Clean for a tree cleaner.
func cleanTree(c TreeCleaner, markup string) (string, error) {
	tree, err := document.Parse(markup)
	if err != nil {
		return "", err
	}
	if c.CleanTree(tree) == 0 {
		return markup, nil
	}
	return tree.HTML(), nil
}
