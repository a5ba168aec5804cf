package utils

import "strings"

// JoinBranchName joins name parts with dashes and prepends prefix.
// Parts are trimmed and empty parts dropped; the result is empty when no
// part remains.
func JoinBranchName(prefix string, parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return prefix + strings.Join(kept, "-")
}
