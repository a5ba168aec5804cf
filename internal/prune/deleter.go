package prune

import (
	"context"
	"errors"

	"github.com/chmouel/loki/internal/git"
	log "github.com/chmouel/loki/internal/log"
	"github.com/chmouel/loki/internal/models"
)

type branchDeleter interface {
	DeleteBranch(ctx context.Context, repo git.Repository, name string, force bool) error
}

// DeleteBranches attempts every deletion in order. A refusal is recorded as
// a failed outcome and the remaining branches are still attempted.
func DeleteBranches(ctx context.Context, deleter branchDeleter, repo git.Repository, names []string, force bool) []models.DeletionOutcome {
	outcomes := make([]models.DeletionOutcome, 0, len(names))
	for _, name := range names {
		outcome := models.DeletionOutcome{Branch: name, Status: models.OutcomeDeleted}
		if err := deleter.DeleteBranch(ctx, repo, name, force); err != nil {
			outcome.Status = models.OutcomeFailed
			outcome.Reason = failureReason(err)
			log.Printf("prune: could not delete %s: %s", name, outcome.Reason)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func failureReason(err error) string {
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Stderr
	}
	return err.Error()
}
