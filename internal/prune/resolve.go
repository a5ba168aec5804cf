// Package prune deletes local branches whose upstream disappeared during a
// fetch or pull with --prune.
package prune

import "github.com/chmouel/loki/internal/models"

// Resolve returns, in snapshot order, the branches whose upstream is one of
// the deleted remote-tracking references. Matching is exact: a branch with no
// upstream, or whose upstream survived, is never returned.
func Resolve(snapshot models.Snapshot, pruned models.PruneResult) []string {
	if len(pruned.Deleted) == 0 {
		return nil
	}

	deleted := make(map[models.RemoteRef]struct{}, len(pruned.Deleted))
	for _, ref := range pruned.Deleted {
		deleted[ref] = struct{}{}
	}

	var orphans []string
	for _, branch := range snapshot.Branches() {
		if !branch.HasUpstream() {
			continue
		}
		if _, ok := deleted[branch.Upstream]; ok {
			orphans = append(orphans, branch.Name)
		}
	}
	return orphans
}
