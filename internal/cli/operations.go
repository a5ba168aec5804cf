// Package cli implements the loki commands on top of the git service.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chmouel/loki/internal/config"
	"github.com/chmouel/loki/internal/git"
	log "github.com/chmouel/loki/internal/log"
	"github.com/chmouel/loki/internal/models"
	"github.com/chmouel/loki/internal/prune"
	"github.com/chmouel/loki/internal/utils"
)

// saveTimeLayout formats the local timestamp embedded in save commits.
const saveTimeLayout = "2006-01-02 15:04:05.000 -07:00:00"

var timeNow = time.Now

type gitService interface {
	Snapshot(ctx context.Context, repo git.Repository) (models.Snapshot, error)
	Prune(ctx context.Context, repo git.Repository, opts git.PruneOptions) (models.PruneResult, error)
	DeleteBranch(ctx context.Context, repo git.Repository, name string, force bool) error
	CurrentBranch(ctx context.Context, repo git.Repository) (string, error)
	RunSteps(ctx context.Context, repo git.Repository, steps ...git.Step) error
	Push(ctx context.Context, repo git.Repository, remote, branch string, force bool) error
}

var _ gitService = (*git.Service)(nil)

// New creates a branch from the joined name parts, switches to it and
// publishes it on the configured remote. It returns the branch name.
func New(ctx context.Context, svc gitService, repo git.Repository, cfg *config.AppConfig, parts []string, stderr io.Writer) (string, error) {
	prefix, fromEnv := cfg.ResolveNewPrefix()
	name := utils.JoinBranchName(prefix, parts)
	if name == "" {
		return "", git.ErrEmptyBranchName
	}
	if fromEnv {
		fmt.Fprintf(stderr, "Using prefix from env var %s=%s\n", config.NewPrefixEnv, prefix)
	}

	log.Printf("new: creating %s on %s", name, cfg.Remote)
	err := svc.RunSteps(ctx, repo,
		git.Step{Label: "create new branch", Args: []string{"switch", "--create", name}},
		git.Step{Label: "push to " + cfg.Remote, Args: []string{"push", "--set-upstream", cfg.Remote, name}},
	)
	if err != nil {
		return "", err
	}
	return name, nil
}

// Push publishes the current branch and sets its upstream.
func Push(ctx context.Context, svc gitService, repo git.Repository, cfg *config.AppConfig, force bool) (string, error) {
	branch, err := svc.CurrentBranch(ctx, repo)
	if err != nil {
		return "", err
	}
	if err := svc.Push(ctx, repo, cfg.Remote, branch, force); err != nil {
		return "", err
	}
	return branch, nil
}

// SaveMessage builds the commit message used by Save.
func SaveMessage(now time.Time, message []string) string {
	text := fmt.Sprintf("lk save [%s]", now.Format(saveTimeLayout))
	if joined := strings.TrimSpace(strings.Join(message, " ")); joined != "" {
		text += " | " + joined
	}
	return text
}

// Save stages changes, commits them with a timestamped message and pushes.
// With all set, untracked files are staged too.
func Save(ctx context.Context, svc gitService, repo git.Repository, all bool, message []string) error {
	selector := "--update"
	if all {
		selector = "--all"
	}

	return svc.RunSteps(ctx, repo,
		git.Step{Label: "add files", Args: []string{"add", selector}},
		git.Step{Label: "commit", Args: []string{"commit", "--message", SaveMessage(timeNow(), message)}},
		git.Step{Label: "push", Args: []string{"push"}},
	)
}

// SyncOptions configures Sync.
type SyncOptions struct {
	Verb   string
	DryRun bool
	Force  bool
	// Quiet suppresses the echo of the fetch or pull output.
	Quiet  bool
	Render prune.RenderOptions
}

// Sync runs the prune pipeline and prints its report to stdout.
// A nil error means the report was printed, even if some deletions failed.
func Sync(ctx context.Context, svc gitService, repo git.Repository, opts SyncOptions, stdout io.Writer) (*models.Report, error) {
	pipelineOpts := prune.Options{
		Verb:   opts.Verb,
		DryRun: opts.DryRun,
		Force:  opts.Force,
	}
	if !opts.Quiet {
		pipelineOpts.OnOutput = func(output string) {
			echoOutput(stdout, output)
		}
	}

	report, err := prune.Run(ctx, svc, repo, pipelineOpts)
	if err != nil {
		return nil, err
	}
	if err := prune.Render(stdout, report, opts.Render); err != nil {
		return report, fmt.Errorf("failed to print report: %w", err)
	}
	return report, nil
}

func echoOutput(w io.Writer, output string) {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return
	}
	for _, line := range strings.Split(output, "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, "\r"))
	}
}
