// Package models defines the data objects shared across loki packages.
package models

import "strings"

const remoteRefPrefix = "refs/remotes/"

// RemoteRef names a remote-tracking reference in short form, e.g. "origin/feature-x".
type RemoteRef string

// RemoteRefFromFull converts "refs/remotes/origin/x" into "origin/x".
// It reports false when ref does not live under refs/remotes/.
func RemoteRefFromFull(ref string) (RemoteRef, bool) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, remoteRefPrefix) {
		return "", false
	}
	short := strings.TrimPrefix(ref, remoteRefPrefix)
	if short == "" {
		return "", false
	}
	return RemoteRef(short), true
}

// Remote returns the remote name part of the reference.
func (r RemoteRef) Remote() string {
	remote, _, _ := strings.Cut(string(r), "/")
	return remote
}

// Branch returns the branch part of the reference, without the remote name.
func (r RemoteRef) Branch() string {
	_, branch, found := strings.Cut(string(r), "/")
	if !found {
		return ""
	}
	return branch
}

// LocalBranch is a local branch and the remote-tracking reference it follows, if any.
type LocalBranch struct {
	Name     string
	Upstream RemoteRef // empty when the branch tracks nothing on a remote
}

// HasUpstream reports whether the branch follows a remote-tracking reference.
func (b LocalBranch) HasUpstream() bool {
	return b.Upstream != ""
}

// Snapshot is the local-branch to upstream mapping captured before pruning.
// Branches are kept in stable name order.
type Snapshot struct {
	branches []LocalBranch
}

// NewSnapshot copies branches into a Snapshot. The caller's slice is not retained.
func NewSnapshot(branches []LocalBranch) Snapshot {
	return Snapshot{branches: append([]LocalBranch(nil), branches...)}
}

// Branches returns a copy of the snapshot entries.
func (s Snapshot) Branches() []LocalBranch {
	return append([]LocalBranch(nil), s.branches...)
}

// Len returns the number of local branches in the snapshot.
func (s Snapshot) Len() int {
	return len(s.branches)
}

// PruneResult holds the remote-tracking references the prune operation deleted.
type PruneResult struct {
	Deleted []RemoteRef
	// Output is the combined text the underlying command printed.
	Output string
	// Warning carries the diagnostic of a command that failed after its prune phase.
	Warning string
}

// OutcomeStatus classifies what happened to a branch.
type OutcomeStatus string

// Outcome status values.
const (
	OutcomeDeleted     OutcomeStatus = "deleted"
	OutcomeSkipped     OutcomeStatus = "skipped"
	OutcomeFailed      OutcomeStatus = "failed"
	OutcomeWouldDelete OutcomeStatus = "would delete"
)

// DeletionOutcome is the result recorded for one local branch.
type DeletionOutcome struct {
	Branch   string
	Upstream RemoteRef
	Status   OutcomeStatus
	Reason   string
}

// Report aggregates the outcomes of one prune invocation.
type Report struct {
	Command  string
	Pruned   []RemoteRef
	Outcomes []DeletionOutcome
	Warning  string
	DryRun   bool
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Outcome returns the outcome recorded for branch.
func (r *Report) Outcome(branch string) (DeletionOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Branch == branch {
			return o, true
		}
	}
	return DeletionOutcome{}, false
}
