// Package git wraps the git commands loki relies on.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/chmouel/loki/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// Repository is the handle of the working repository every command runs against.
type Repository struct {
	Dir string
}

// OpenRepository resolves dir (empty means the current directory) into a Repository.
func OpenRepository(dir string) (Repository, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Repository{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Repository{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Repository{}, fmt.Errorf("repository path %s: %w", abs, err)
	}
	if !info.IsDir() {
		return Repository{}, fmt.Errorf("repository path %s is not a directory", abs)
	}
	return Repository{Dir: abs}, nil
}

// Result is what a finished command left behind.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the command exited with status zero.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// Combined returns stdout followed by stderr.
func (r Result) Combined() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	}
	return strings.TrimRight(r.Stdout, "\n") + "\n" + r.Stderr
}

// Detail returns the most useful diagnostic text of a failed command.
func (r Result) Detail() string {
	if detail := strings.TrimSpace(r.Stderr); detail != "" {
		return detail
	}
	if detail := strings.TrimSpace(r.Stdout); detail != "" {
		return detail
	}
	return fmt.Sprintf("exit status %d", r.ExitCode)
}

// Runner executes git with the given arguments against repo.
// A non-zero exit is reported through Result, never as an error; the error
// return is reserved for a process that could not be started at all.
type Runner interface {
	Run(ctx context.Context, repo Repository, args ...string) (Result, error)
}

// ExecRunner runs the git binary found in PATH.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, repo Repository, args ...string) (Result, error) {
	command := "git " + strings.Join(args, " ")
	log.Printf("run: %s (repo=%s)", command, repo.Dir)

	if _, err := LookupPath("git"); err != nil {
		log.Printf("error: command not found: git")
		return Result{}, fmt.Errorf("%w: %v", ErrToolMissing, err)
	}

	cmd, err := prepareAllowedCommand(ctx, append([]string{"git"}, args...))
	if err != nil {
		return Result{}, err
	}
	cmd.Dir = repo.Dir
	// Output is parsed, keep it untranslated.
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{}
	err = cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Printf("error: %s: %v", command, err)
			return res, fmt.Errorf("%w: %v", ErrToolMissing, err)
		}
		res.ExitCode = exitErr.ExitCode()
		log.Printf("error: %s (exit %d)", command, res.ExitCode)
		return res, nil
	}

	log.Printf("ok: %s", command)
	return res, nil
}
