// Package main provides the consist CLI.
package main

import (
	"os"

	"github.com/leafbio/consist/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
