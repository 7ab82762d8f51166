// Package main is the entry point for the churnrisk CLI.
package main

import (
	"os"

	"churnrisk/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
