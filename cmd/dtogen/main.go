// Command dtogen generates Java DTO sources from sample JSON and packages
// compiled output into a single runnable jar.
package main

import (
	"os"

	"github.com/f9-o/dtogen/internal/cli"
	"github.com/f9-o/dtogen/internal/cli/commands"
)

// Set at link time:
//
//	go build -ldflags "-X main.version=v0.3.0 -X main.commit=$(git rev-parse --short HEAD) -X main.buildDate=$(date -u +%F)" ./cmd/dtogen
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.BuildDate = buildDate

	os.Exit(cli.Execute())
}
