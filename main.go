package main

import (
	"fmt"
	"os"

	"ccforest/cmd"
	"ccforest/internal/diagnostics"
)

// Version information, injected at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(diagnostics.ExitCode(err))
	}
}
