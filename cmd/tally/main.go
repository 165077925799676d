// Package main is the entrypoint for tally, a command-line time tracker.
package main

import "github.com/tally-cli/tally/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
