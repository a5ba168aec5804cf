// Package main is the entry point for the lk binary.
package main

import (
	"context"
	"os"

	"github.com/chmouel/loki/internal/bootstrap"
	"github.com/chmouel/loki/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	os.Exit(bootstrap.Run(context.Background(), os.Args))
}
