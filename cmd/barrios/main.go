// Package main is the entry point for the barrios CLI.
package main

import (
	"os"

	"github.com/barcelona-housing/barrios/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
