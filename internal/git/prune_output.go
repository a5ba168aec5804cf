package git

import (
	"strings"

	"github.com/chmouel/loki/internal/models"
)

const deletedMarker = "[deleted]"

// ParsePruneOutput extracts the remote-tracking references that a
// `git fetch --prune` or `git pull --prune` run reported as deleted.
//
// Git prints one line per pruned reference:
//
//	 - [deleted]         (none)     -> origin/feature-x
//
// Older releases use "x" instead of "-" as the leading flag. Everything else
// (progress, ref updates, merge output, blank lines) is ignored, as are lines
// that carry the marker but no usable target. Order follows the output and
// duplicates are dropped.
func ParsePruneOutput(output string) []models.RemoteRef {
	var refs []models.RemoteRef
	seen := make(map[models.RemoteRef]bool)

	for _, line := range strings.Split(output, "\n") {
		ref, ok := parsePruneLine(line)
		if !ok || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

func parsePruneLine(line string) (models.RemoteRef, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if len(line) < 2 || (line[0] != '-' && line[0] != 'x') {
		return "", false
	}

	rest := strings.TrimSpace(line[1:])
	if !strings.HasPrefix(rest, deletedMarker) {
		return "", false
	}
	rest = rest[len(deletedMarker):]

	// The source column is "(none)" or a refname and never holds a space,
	// so the first "-> " ends it. The target may itself contain "->".
	_, target, found := strings.Cut(rest, "-> ")
	if !found {
		return "", false
	}
	target = strings.TrimSpace(target)
	if target == "" || target == "(none)" || strings.ContainsAny(target, " \t") {
		return "", false
	}

	if strings.HasPrefix(target, "refs/") {
		ref, ok := models.RemoteRefFromFull(target)
		if !ok {
			return "", false
		}
		return ref, true
	}
	if !strings.Contains(target, "/") {
		return "", false
	}
	return models.RemoteRef(target), true
}
