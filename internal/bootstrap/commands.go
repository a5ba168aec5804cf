package bootstrap

import (
	"context"
	"fmt"

	"github.com/chmouel/loki/internal/buildinfo"
	"github.com/chmouel/loki/internal/cli"
	"github.com/chmouel/loki/internal/git"
	urfavecli "github.com/urfave/cli/v3"
)

func newCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "new",
		Aliases:   []string{"n"},
		Usage:     "Create a branch, switch to it and push it upstream",
		ArgsUsage: "NAME...",
		Description: "The NAME parts are joined with dashes. The new_prefix setting, or the " +
			"LOKI_NEW_PREFIX environment variable, is prepended to the result.",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			s, err := openSession(ctx, cmd)
			if err != nil {
				return err
			}
			name, err := cli.New(ctx, s.svc, s.repo, s.cfg, cmd.Args().Slice(), stderr)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Switched to %s, tracking %s/%s\n", name, s.cfg.Remote, name)
			return nil
		},
	}
}

func pushCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:    "push",
		Aliases: []string{"p"},
		Usage:   "Push the current branch and set its upstream",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Push with --force-with-lease",
			},
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			s, err := openSession(ctx, cmd)
			if err != nil {
				return err
			}
			branch, err := cli.Push(ctx, s.svc, s.repo, s.cfg, cmd.Bool("force"))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Pushed %s to %s\n", branch, s.cfg.Remote)
			return nil
		},
	}
}

func saveCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "save",
		Usage:     "Add, commit and push using a timestamped commit message",
		ArgsUsage: "[MESSAGE...]",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Stage untracked files too (git add --all)",
			},
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			s, err := openSession(ctx, cmd)
			if err != nil {
				return err
			}
			return cli.Save(ctx, s.svc, s.repo, cmd.Bool("all"), cmd.Args().Slice())
		},
	}
}

func pullCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "pull",
		Usage:  "Pull with --prune and delete local branches whose upstream was pruned",
		Flags:  []urfavecli.Flag{forceDeleteFlag(), quietFlag()},
		Action: syncAction(git.VerbPull),
	}
}

func fetchCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "fetch",
		Usage: "Fetch with --prune and delete local branches whose upstream was pruned",
		Flags: []urfavecli.Flag{
			forceDeleteFlag(),
			quietFlag(),
			&urfavecli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Show which branches would be deleted without changing anything",
			},
		},
		Action: syncAction(git.VerbFetch),
	}
}

func syncAction(verb string) urfavecli.ActionFunc {
	return func(ctx context.Context, cmd *urfavecli.Command) error {
		s, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}

		opts := cli.SyncOptions{
			Verb:   verb,
			DryRun: cmd.Bool("dry-run"),
			Force:  cmd.Bool("force-delete") || s.cfg.ForceDelete,
			Quiet:  cmd.Bool("quiet") || !s.cfg.EchoOutput,
			Render: renderOptions(stdout, s.cfg),
		}
		_, err = cli.Sync(ctx, s.svc, s.repo, opts, stdout)
		return err
	}
}

func versionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, _ *urfavecli.Command) error {
			fmt.Fprintln(stdout, buildinfo.Current())
			return nil
		},
	}
}
