package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chmouel/loki/internal/config"
	"github.com/chmouel/loki/internal/git"
	log "github.com/chmouel/loki/internal/log"
	"github.com/chmouel/loki/internal/prune"
	"github.com/chmouel/loki/internal/theme"
	"github.com/chmouel/loki/internal/utils"
	"github.com/muesli/termenv"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	isTerminal   = term.IsTerminal
	terminalSize = term.GetSize

	loadCLIConfigFunc = loadCLIConfig
	newGitServiceFunc = func() *git.Service { return git.NewService(nil) }
)

// session is what every repository command needs before it can run.
type session struct {
	cfg  *config.AppConfig
	repo git.Repository
	svc  *git.Service
}

func openSession(ctx context.Context, cmd *urfavecli.Command) (*session, error) {
	if cmd.Bool("verbose") {
		log.SetVerbose(stderr)
	}

	repo, err := git.OpenRepository(cmd.String("repo"))
	if err != nil {
		return nil, err
	}

	cfg, err := loadCLIConfigFunc(ctx, cmd.String("config-file"), repo.Dir, cmd.StringSlice("config"))
	if err != nil {
		return nil, err
	}
	if themeName := cmd.String("theme"); themeName != "" {
		cfg.Theme = theme.NormalizeName(themeName)
	}
	if color := cmd.String("color"); color != "" {
		cfg.Color = color
	}

	setupDebugLog(cmd.String("debug-log"), cfg.DebugLog)
	log.Printf("lk %s in %s (remote=%s)", cmd.Name, repo.Dir, cfg.Remote)

	return &session{cfg: cfg, repo: repo, svc: newGitServiceFunc()}, nil
}

// loadCLIConfig loads the layered configuration. A broken file or git
// config is reported and whatever loaded before it is kept.
func loadCLIConfig(ctx context.Context, configFile, repoDir string, overrides []string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(ctx, configFile, repoDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
	}

	if len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	return cfg, nil
}

// setupDebugLog picks the log file from the flag, then the config. Lines
// logged before this point were buffered and land in the file too.
func setupDebugLog(flagPath, configPath string) {
	path := flagPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		_ = log.SetFile("")
		return
	}

	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec
	return fd, isTerminal(fd)
}

// renderOptions resolves colour and width for the report written to w.
func renderOptions(w io.Writer, cfg *config.AppConfig) prune.RenderOptions {
	fd, tty := terminalFd(w)

	opts := prune.RenderOptions{Theme: theme.GetTheme(cfg.Theme)}
	switch cfg.Color {
	case config.ColorAlways:
		opts.Color = true
	case config.ColorNever:
		opts.Color = false
	default:
		opts.Color = tty && !termenv.EnvNoColor()
	}

	if tty {
		if width, _, err := terminalSize(fd); err == nil {
			opts.Width = width
		}
	}
	return opts
}
