// Package main provides the CLI entry point for the LeapLite SQLite shell.
package main

import (
	"os"

	"github.com/leapstack-labs/leaplite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
