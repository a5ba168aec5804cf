package git

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/chmouel/loki/internal/models"
)

// Prune verbs accepted by Service.Prune.
const (
	VerbFetch = "fetch"
	VerbPull  = "pull"
)

// branchRefFormat prints "<refname> NUL <upstream>" per local branch.
const branchRefFormat = "--format=%(refname)%00%(upstream)"

// Step is one labelled git invocation of a multi-step workflow.
type Step struct {
	Label string
	Args  []string
}

// PruneOptions selects how the prune command is run.
type PruneOptions struct {
	Verb   string
	DryRun bool
}

// Service runs the git operations loki needs through a Runner.
type Service struct {
	runner Runner
}

// NewService constructs a Service. A nil runner means the git binary in PATH.
func NewService(runner Runner) *Service {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Service{runner: runner}
}

// Snapshot lists every local branch with its configured upstream.
// Only upstreams under refs/remotes/ are kept; a branch following another
// local branch cannot be pruned and is recorded as untracked.
func (s *Service) Snapshot(ctx context.Context, repo Repository) (models.Snapshot, error) {
	args := []string{"for-each-ref", branchRefFormat, "refs/heads"}
	res, err := s.runner.Run(ctx, repo, args...)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to list branches: %w", err)
	}
	if !res.OK() {
		return models.Snapshot{}, newCommandError("list branches", args, res)
	}
	return models.NewSnapshot(parseBranchRefs(res.Stdout)), nil
}

func parseBranchRefs(output string) []models.LocalBranch {
	var branches []models.LocalBranch
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		refname, upstream, _ := strings.Cut(line, "\x00")
		name, ok := strings.CutPrefix(strings.TrimSpace(refname), "refs/heads/")
		if !ok || name == "" {
			continue
		}
		branch := models.LocalBranch{Name: name}
		if ref, ok := models.RemoteRefFromFull(upstream); ok {
			branch.Upstream = ref
		}
		branches = append(branches, branch)
	}
	slices.SortFunc(branches, func(a, b models.LocalBranch) int {
		return strings.Compare(a.Name, b.Name)
	})
	return branches
}

// Prune runs fetch or pull with --prune and returns the remote-tracking
// references it deleted. A command that exits non-zero without reporting
// any deletion is a failure; one that failed after pruning (typically the
// merge step of a pull) keeps its deletions and carries the diagnostic as
// a warning.
func (s *Service) Prune(ctx context.Context, repo Repository, opts PruneOptions) (models.PruneResult, error) {
	verb := opts.Verb
	if verb != VerbFetch && verb != VerbPull {
		return models.PruneResult{}, fmt.Errorf("unsupported prune command %q", verb)
	}

	args := []string{verb, "--prune"}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}

	res, err := s.runner.Run(ctx, repo, args...)
	if err != nil {
		return models.PruneResult{}, fmt.Errorf("failed to %s: %w", verb, err)
	}

	result := models.PruneResult{
		Deleted: ParsePruneOutput(res.Combined()),
		Output:  res.Combined(),
	}
	if !res.OK() {
		if len(result.Deleted) == 0 {
			return result, newCommandError(verb+" with pruning", args, res)
		}
		result.Warning = res.Detail()
	}
	return result, nil
}

// DeleteBranch removes a local branch. Without force git refuses branches
// it does not consider merged; that refusal comes back as a *CommandError.
func (s *Service) DeleteBranch(ctx context.Context, repo Repository, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	args := []string{"branch", flag, name}
	res, err := s.runner.Run(ctx, repo, args...)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	if !res.OK() {
		return newCommandError("delete branch "+name, args, res)
	}
	return nil
}

// CurrentBranch returns the checked out branch name.
func (s *Service) CurrentBranch(ctx context.Context, repo Repository) (string, error) {
	args := []string{"rev-parse", "--abbrev-ref", "HEAD"}
	res, err := s.runner.Run(ctx, repo, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if !res.OK() {
		return "", newCommandError("get current branch", args, res)
	}

	branch := strings.TrimSpace(res.Stdout)
	if branch == "" || strings.EqualFold(branch, "HEAD") {
		return "", ErrDetachedHead
	}
	return branch, nil
}

// RunSteps runs each step in order and stops at the first failure.
func (s *Service) RunSteps(ctx context.Context, repo Repository, steps ...Step) error {
	for _, step := range steps {
		res, err := s.runner.Run(ctx, repo, step.Args...)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Label, err)
		}
		if !res.OK() {
			return newCommandError(step.Label, step.Args, res)
		}
	}
	return nil
}

// Push pushes branch to remote and sets it as upstream.
func (s *Service) Push(ctx context.Context, repo Repository, remote, branch string, force bool) error {
	args := []string{"push", "--set-upstream"}
	if force {
		args = append(args, "--force-with-lease")
	}
	args = append(args, remote, branch)
	return s.RunSteps(ctx, repo, Step{Label: "push", Args: args})
}
