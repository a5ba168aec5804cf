package prune

import (
	"context"
	"errors"
	"testing"

	"github.com/chmouel/loki/internal/git"
	"github.com/chmouel/loki/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDeleteBranches(t *testing.T) {
	svc := &fakeGitService{
		deleteErrs: map[string]error{
			"current": &git.CommandError{ExitCode: 1, Stderr: "error: Cannot delete branch 'current' checked out at '/tmp/repo'"},
			"missing": errors.New("failed to delete branch missing: git could not be executed"),
		},
	}

	outcomes := DeleteBranches(context.Background(), svc, testRepo, []string{"current", "done", "missing", "other"}, true)

	assert.Equal(t, []models.DeletionOutcome{
		{Branch: "current", Status: models.OutcomeFailed, Reason: "error: Cannot delete branch 'current' checked out at '/tmp/repo'"},
		{Branch: "done", Status: models.OutcomeDeleted},
		{Branch: "missing", Status: models.OutcomeFailed, Reason: "failed to delete branch missing: git could not be executed"},
		{Branch: "other", Status: models.OutcomeDeleted},
	}, outcomes)
	assert.Equal(t, []bool{true, true, true, true}, svc.forcedFlags)
}

func TestDeleteBranchesEmpty(t *testing.T) {
	svc := &fakeGitService{}
	outcomes := DeleteBranches(context.Background(), svc, testRepo, nil, false)
	assert.Empty(t, outcomes)
	assert.Empty(t, svc.calls)
}
