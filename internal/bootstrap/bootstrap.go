package bootstrap

import (
	"context"
	"fmt"

	"github.com/chmouel/loki/internal/buildinfo"
	log "github.com/chmouel/loki/internal/log"
	urfavecli "github.com/urfave/cli/v3"
)

func rootCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "lk",
		Usage:                 "Git shortcuts that keep local branches in step with the remote",
		Version:               buildinfo.Version(),
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*urfavecli.Command{
			newCommand(),
			pushCommand(),
			saveCommand(),
			pullCommand(),
			fetchCommand(),
			versionCommand(),
		},
		Writer:    stdout,
		ErrWriter: stderr,
		// Errors are printed by Run, which also owns the exit code.
		ExitErrHandler: func(context.Context, *urfavecli.Command, error) {},
	}
}

// Run executes lk with args, program name included, and returns the
// process exit code.
func Run(ctx context.Context, args []string) int {
	err := rootCommand().Run(ctx, args)
	if cerr := log.Close(); cerr != nil {
		fmt.Fprintf(stderr, "Error closing debug log: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
