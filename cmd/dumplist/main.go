// Package main provides the entry point for the dumplist CLI.
package main

import (
	"os"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit status.
func run(args []string) int {
	rootCmd.SetArgs(normalizeArgs(args))
	code := exitCode(os.Stderr, Execute())
	_ = logging.Close()
	return code
}
