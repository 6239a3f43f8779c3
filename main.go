package main

import (
	"os"

	"github.com/nativecapsule/nativecapsule/internal/cli"
	nerrors "github.com/nativecapsule/nativecapsule/internal/errors"
	"github.com/nativecapsule/nativecapsule/internal/output"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		output.Error(err.Error())
		os.Exit(nerrors.ExitCode(err))
	}
}
