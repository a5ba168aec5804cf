package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chmouel/loki/internal/config"
	"github.com/chmouel/loki/internal/git"
	"github.com/chmouel/loki/internal/models"
	"github.com/chmouel/loki/internal/prune"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGitService struct {
	snapshot   models.Snapshot
	pruned     models.PruneResult
	pruneErr   error
	deleteErrs map[string]error

	currentBranch    string
	currentBranchErr error
	stepErrs         map[string]error
	pushErr          error

	steps  []git.Step
	pushes []string
	calls  []string
}

func (f *fakeGitService) Snapshot(_ context.Context, _ git.Repository) (models.Snapshot, error) {
	f.calls = append(f.calls, "snapshot")
	return f.snapshot, nil
}

func (f *fakeGitService) Prune(_ context.Context, _ git.Repository, opts git.PruneOptions) (models.PruneResult, error) {
	f.calls = append(f.calls, "prune "+opts.Verb)
	return f.pruned, f.pruneErr
}

func (f *fakeGitService) DeleteBranch(_ context.Context, _ git.Repository, name string, _ bool) error {
	f.calls = append(f.calls, "delete "+name)
	return f.deleteErrs[name]
}

func (f *fakeGitService) CurrentBranch(_ context.Context, _ git.Repository) (string, error) {
	return f.currentBranch, f.currentBranchErr
}

func (f *fakeGitService) RunSteps(_ context.Context, _ git.Repository, steps ...git.Step) error {
	for _, step := range steps {
		f.steps = append(f.steps, step)
		if err := f.stepErrs[step.Label]; err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGitService) Push(_ context.Context, _ git.Repository, remote, branch string, force bool) error {
	f.pushes = append(f.pushes, strings.Join([]string{remote, branch, boolString(force)}, " "))
	return f.pushErr
}

func boolString(b bool) string {
	if b {
		return "force"
	}
	return "plain"
}

var testRepo = git.Repository{Dir: "/tmp/repo"}

func stepArgs(steps []git.Step) [][]string {
	out := make([][]string, len(steps))
	for i, s := range steps {
		out[i] = s.Args
	}
	return out
}

func TestNew(t *testing.T) {
	t.Setenv(config.NewPrefixEnv, "")
	require.NoError(t, os.Unsetenv(config.NewPrefixEnv))

	svc := &fakeGitService{}
	cfg := config.DefaultConfig()
	cfg.NewPrefix = "jdoe/"
	var stderr bytes.Buffer

	name, err := New(context.Background(), svc, testRepo, cfg, []string{"fix", "login"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "jdoe/fix-login", name)
	assert.Equal(t, [][]string{
		{"switch", "--create", "jdoe/fix-login"},
		{"push", "--set-upstream", "origin", "jdoe/fix-login"},
	}, stepArgs(svc.steps))
	assert.Empty(t, stderr.String())
}

func TestNewPrefixFromEnv(t *testing.T) {
	t.Setenv(config.NewPrefixEnv, "env/")

	svc := &fakeGitService{}
	cfg := config.DefaultConfig()
	cfg.NewPrefix = "cfg/"
	cfg.Remote = "fork"
	var stderr bytes.Buffer

	name, err := New(context.Background(), svc, testRepo, cfg, []string{"topic"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "env/topic", name)
	assert.Equal(t, "Using prefix from env var LOKI_NEW_PREFIX=env/\n", stderr.String())
	assert.Equal(t, "push to fork", svc.steps[1].Label)
}

func TestNewEmptyName(t *testing.T) {
	svc := &fakeGitService{}
	_, err := New(context.Background(), svc, testRepo, config.DefaultConfig(), []string{" "}, &bytes.Buffer{})
	assert.ErrorIs(t, err, git.ErrEmptyBranchName)
	assert.Empty(t, svc.steps)
}

func TestNewStopsOnFailedStep(t *testing.T) {
	failure := &git.CommandError{Label: "create new branch", ExitCode: 128, Stderr: "fatal: a branch named 'x' already exists"}
	svc := &fakeGitService{stepErrs: map[string]error{"create new branch": failure}}

	_, err := New(context.Background(), svc, testRepo, config.DefaultConfig(), []string{"x"}, &bytes.Buffer{})
	require.ErrorIs(t, err, failure)
	assert.Len(t, svc.steps, 1)
}

func TestPush(t *testing.T) {
	svc := &fakeGitService{currentBranch: "feature"}
	cfg := config.DefaultConfig()

	branch, err := Push(context.Background(), svc, testRepo, cfg, true)
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
	assert.Equal(t, []string{"origin feature force"}, svc.pushes)
}

func TestPushDetachedHead(t *testing.T) {
	svc := &fakeGitService{currentBranchErr: git.ErrDetachedHead}

	_, err := Push(context.Background(), svc, testRepo, config.DefaultConfig(), false)
	assert.ErrorIs(t, err, git.ErrDetachedHead)
	assert.Empty(t, svc.pushes)
}

func TestSaveMessage(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 250_000_000, time.FixedZone("CET", 3600))

	assert.Equal(t, "lk save [2024-03-09 14:05:07.250 +01:00:00] | wip on parser", SaveMessage(now, []string{"wip", "on", "parser"}))
	assert.Equal(t, "lk save [2024-03-09 14:05:07.250 +01:00:00]", SaveMessage(now, nil))
}

func TestSave(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	tests := []struct {
		name     string
		all      bool
		selector string
	}{
		{name: "tracked files only", selector: "--update"},
		{name: "all files", all: true, selector: "--all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeGitService{}
			require.NoError(t, Save(context.Background(), svc, testRepo, tt.all, []string{"done"}))
			assert.Equal(t, [][]string{
				{"add", tt.selector},
				{"commit", "--message", "lk save [2024-01-02 03:04:05.000 +00:00:00] | done"},
				{"push"},
			}, stepArgs(svc.steps))
		})
	}
}

func TestSaveNothingToCommit(t *testing.T) {
	svc := &fakeGitService{stepErrs: map[string]error{
		"commit": &git.CommandError{Label: "commit", ExitCode: 1, Stderr: "nothing to commit, working tree clean"},
	}}

	err := Save(context.Background(), svc, testRepo, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to commit")
	assert.Len(t, svc.steps, 2)
}

func syncSnapshot() models.Snapshot {
	return models.NewSnapshot([]models.LocalBranch{
		{Name: "feature-x", Upstream: "origin/feature-x"},
		{Name: "main", Upstream: "origin/main"},
	})
}

func TestSync(t *testing.T) {
	svc := &fakeGitService{
		snapshot: syncSnapshot(),
		pruned: models.PruneResult{
			Deleted: []models.RemoteRef{"origin/feature-x"},
			Output:  "From example.com:repo\n - [deleted]         (none)     -> origin/feature-x\n",
		},
	}
	var stdout bytes.Buffer

	report, err := Sync(context.Background(), svc, testRepo, SyncOptions{Verb: git.VerbFetch}, &stdout)
	require.NoError(t, err)

	assert.Equal(t, []string{"snapshot", "prune fetch", "delete feature-x"}, svc.calls)
	assert.Equal(t, 1, report.Count(models.OutcomeDeleted))
	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "From example.com:repo\n - [deleted]"))
	assert.Contains(t, out, "Summary: 1 deleted, 1 skipped, 0 failed")
}

func TestSyncQuiet(t *testing.T) {
	svc := &fakeGitService{
		snapshot: syncSnapshot(),
		pruned:   models.PruneResult{Output: "Already up to date.\n"},
	}
	var stdout bytes.Buffer

	_, err := Sync(context.Background(), svc, testRepo, SyncOptions{Verb: git.VerbPull, Quiet: true}, &stdout)
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Already up to date.")
	assert.True(t, strings.HasPrefix(stdout.String(), "Nothing pruned upstream"))
}

func TestSyncFatalPrune(t *testing.T) {
	svc := &fakeGitService{
		snapshot: syncSnapshot(),
		pruned:   models.PruneResult{Output: "fatal: unable to access remote\n"},
		pruneErr: &git.CommandError{Label: "fetch", ExitCode: 128, Stderr: "fatal: unable to access remote"},
	}
	var stdout bytes.Buffer

	report, err := Sync(context.Background(), svc, testRepo, SyncOptions{Verb: git.VerbFetch}, &stdout)
	require.Error(t, err)
	assert.Nil(t, report)

	var stageErr *prune.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, prune.StagePruning, stageErr.Stage)
	assert.NotContains(t, stdout.String(), "Summary:")
	assert.NotContains(t, svc.calls, "delete feature-x")
}

func TestEchoOutput(t *testing.T) {
	var buf bytes.Buffer
	echoOutput(&buf, "a\r\nb\n\n")
	assert.Equal(t, "a\nb\n", buf.String())

	buf.Reset()
	echoOutput(&buf, "\n")
	assert.Empty(t, buf.String())
}
