package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteRefFromFull(t *testing.T) {
	ref, ok := RemoteRefFromFull("refs/remotes/origin/feature/x")
	assert.True(t, ok)
	assert.Equal(t, RemoteRef("origin/feature/x"), ref)
	assert.Equal(t, "origin", ref.Remote())
	assert.Equal(t, "feature/x", ref.Branch())

	_, ok = RemoteRefFromFull("refs/heads/main")
	assert.False(t, ok)
	_, ok = RemoteRefFromFull("refs/remotes/")
	assert.False(t, ok)

	assert.Empty(t, RemoteRef("origin").Branch())
}

func TestSnapshotIsImmutable(t *testing.T) {
	input := []LocalBranch{{Name: "main", Upstream: "origin/main"}, {Name: "scratch"}}
	snap := NewSnapshot(input)
	input[0].Name = "changed"

	branches := snap.Branches()
	branches[1].Name = "changed"

	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "main", snap.Branches()[0].Name)
	assert.Equal(t, "scratch", snap.Branches()[1].Name)
	assert.True(t, snap.Branches()[0].HasUpstream())
	assert.False(t, snap.Branches()[1].HasUpstream())
}

func TestReportLookups(t *testing.T) {
	report := &Report{Outcomes: []DeletionOutcome{
		{Branch: "a", Status: OutcomeDeleted},
		{Branch: "b", Status: OutcomeSkipped, Reason: "no upstream"},
		{Branch: "c", Status: OutcomeDeleted},
	}}

	assert.Equal(t, 2, report.Count(OutcomeDeleted))
	assert.Equal(t, 0, report.Count(OutcomeFailed))

	outcome, ok := report.Outcome("b")
	assert.True(t, ok)
	assert.Equal(t, "no upstream", outcome.Reason)
	_, ok = report.Outcome("zzz")
	assert.False(t, ok)
}
