// Package main provides the entry point for the dailytasks CLI.
package main

import (
	"os"

	"github.com/nhle/dailytasks/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
