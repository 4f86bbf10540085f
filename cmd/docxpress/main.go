// Package main is the entry point for the docxpress CLI.
package main

import (
	"os"

	"github.com/jmylchreest/docxpress/cmd/docxpress/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
