package main

import (
	"os"

	"github.com/composer-link/composer-link/internal/cli"
	"github.com/composer-link/composer-link/internal/errors"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		if exitErr, ok := err.(*errors.ExitError); ok {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
