// Package main provides the sitenav command-line entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/sitenav/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
