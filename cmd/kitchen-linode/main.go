// Package main is the entry point for the kitchen-linode CLI.
//
// kitchen-linode provisions a single Linode instance on behalf of an
// integration-test harness, bootstraps SSH access on it, and tears it down
// again. Run state is persisted to a file so create and destroy can happen
// in separate process invocations.
//
// Commands: create, destroy, version.
//
// For detailed usage information, run:
//
//	kitchen-linode --help
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/provisionkit/kitchen-linode/cmd/kitchen-linode/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Pick up LINODE_TOKEN and friends from a local .env if present.
	_ = godotenv.Load()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
