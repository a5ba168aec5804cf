package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolMissing means the git process could not be started.
	ErrToolMissing = errors.New("git could not be executed")
	// ErrDetachedHead is returned when an operation needs a current branch.
	ErrDetachedHead = errors.New("HEAD is currently detached, no branch to push")
	// ErrEmptyBranchName is returned when no name parts were given.
	ErrEmptyBranchName = errors.New("name cannot be empty")
)

// CommandError is a git command that exited non-zero where the caller could not continue.
type CommandError struct {
	Label    string
	Args     []string
	ExitCode int
	Stderr   string
}

func newCommandError(label string, args []string, res Result) *CommandError {
	return &CommandError{
		Label:    label,
		Args:     append([]string(nil), args...),
		ExitCode: res.ExitCode,
		Stderr:   res.Detail(),
	}
}

func (e *CommandError) Error() string {
	label := e.Label
	if label == "" {
		label = "git " + strings.Join(e.Args, " ")
	}
	return fmt.Sprintf("%s failed: %s", label, e.Stderr)
}
