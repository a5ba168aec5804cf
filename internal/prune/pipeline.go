package prune

import (
	"context"
	"fmt"

	"github.com/chmouel/loki/internal/git"
	log "github.com/chmouel/loki/internal/log"
	"github.com/chmouel/loki/internal/models"
)

// Stage is one step of a prune invocation.
type Stage string

// Stages, in the order a run goes through them.
const (
	StageIdle         Stage = "idle"
	StageSnapshotting Stage = "snapshotting"
	StagePruning      Stage = "pruning"
	StageResolving    Stage = "resolving"
	StageDeleting     Stage = "deleting"
	StageReporting    Stage = "reporting"
)

// StageError is a fatal failure; no branch was deleted when it is returned.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type gitService interface {
	branchDeleter
	Snapshot(ctx context.Context, repo git.Repository) (models.Snapshot, error)
	Prune(ctx context.Context, repo git.Repository, opts git.PruneOptions) (models.PruneResult, error)
}

var _ gitService = (*git.Service)(nil)

// Options configures a Run.
type Options struct {
	// Verb is git.VerbFetch or git.VerbPull.
	Verb string
	// DryRun asks git what it would prune and deletes nothing.
	DryRun bool
	// Force deletes with -D instead of -d.
	Force bool
	// OnStage is called on every stage transition.
	OnStage func(Stage)
	// OnOutput receives the raw output of the fetch or pull.
	OnOutput func(string)
}

type pipeline struct {
	svc   gitService
	repo  git.Repository
	opts  Options
	stage Stage
}

func (p *pipeline) enter(stage Stage) {
	log.Printf("prune: %s -> %s", p.stage, stage)
	p.stage = stage
	if p.opts.OnStage != nil {
		p.opts.OnStage(stage)
	}
}

// Run snapshots local branches, runs the prune, then deletes the branches
// whose upstream the prune removed. The snapshot is always taken before the
// network operation. Each stage finishes before the next starts.
func Run(ctx context.Context, svc gitService, repo git.Repository, opts Options) (*models.Report, error) {
	p := &pipeline{svc: svc, repo: repo, opts: opts, stage: StageIdle}
	report, err := p.run(ctx)
	p.enter(StageIdle)
	return report, err
}

func (p *pipeline) fail(stage Stage, err error) error {
	p.enter(StageReporting)
	return &StageError{Stage: stage, Err: err}
}

func (p *pipeline) run(ctx context.Context) (*models.Report, error) {
	p.enter(StageSnapshotting)
	snapshot, err := p.svc.Snapshot(ctx, p.repo)
	if err != nil {
		return nil, p.fail(StageSnapshotting, err)
	}

	p.enter(StagePruning)
	pruned, err := p.svc.Prune(ctx, p.repo, git.PruneOptions{Verb: p.opts.Verb, DryRun: p.opts.DryRun})
	if p.opts.OnOutput != nil && pruned.Output != "" {
		p.opts.OnOutput(pruned.Output)
	}
	if err != nil {
		return nil, p.fail(StagePruning, err)
	}

	p.enter(StageResolving)
	orphans := Resolve(snapshot, pruned)
	log.Printf("prune: %d ref(s) pruned, %d local branch(es) orphaned", len(pruned.Deleted), len(orphans))

	var outcomes []models.DeletionOutcome
	if p.opts.DryRun {
		for _, name := range orphans {
			outcomes = append(outcomes, models.DeletionOutcome{Branch: name, Status: models.OutcomeWouldDelete})
		}
	} else {
		p.enter(StageDeleting)
		outcomes = DeleteBranches(ctx, p.svc, p.repo, orphans, p.opts.Force)
	}

	p.enter(StageReporting)
	return buildReport(p.opts, snapshot, pruned, outcomes), nil
}

func buildReport(opts Options, snapshot models.Snapshot, pruned models.PruneResult, outcomes []models.DeletionOutcome) *models.Report {
	byBranch := make(map[string]models.DeletionOutcome, len(outcomes))
	for _, o := range outcomes {
		byBranch[o.Branch] = o
	}

	report := &models.Report{
		Command: opts.Verb,
		Pruned:  append([]models.RemoteRef(nil), pruned.Deleted...),
		Warning: pruned.Warning,
		DryRun:  opts.DryRun,
	}
	for _, branch := range snapshot.Branches() {
		outcome, ok := byBranch[branch.Name]
		if !ok {
			outcome = models.DeletionOutcome{Branch: branch.Name, Status: models.OutcomeSkipped}
			if branch.HasUpstream() {
				outcome.Reason = fmt.Sprintf("upstream %s not pruned", branch.Upstream)
			} else {
				outcome.Reason = "no upstream"
			}
		}
		outcome.Upstream = branch.Upstream
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report
}
