package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinBranchName(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "single part", parts: []string{"fix"}, expected: "fix"},
		{name: "joined with dashes", parts: []string{"fix", "login", "bug"}, expected: "fix-login-bug"},
		{name: "with prefix", prefix: "jdoe/", parts: []string{"fix", "login"}, expected: "jdoe/fix-login"},
		{name: "blank parts dropped", parts: []string{" fix ", "", "  ", "login"}, expected: "fix-login"},
		{name: "nothing left", prefix: "jdoe/", parts: []string{" ", ""}, expected: ""},
		{name: "no parts", parts: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinBranchName(tt.prefix, tt.parts))
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/logs/lk.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "lk.log"), got)

	t.Setenv("LK_TEST_DIR", "/var/tmp")
	got, err = ExpandPath("$LK_TEST_DIR/lk.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/lk.log", got)

	got, err = ExpandPath("/absolute/path")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", got)
}
