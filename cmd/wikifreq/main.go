// Package main provides the entry point for the wikifreq CLI.
package main

import (
	"github.com/colthorp/wikifreq/internal/cli"
)

func main() {
	cli.Execute()
}
