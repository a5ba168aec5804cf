package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/chmouel/loki/internal/git"
)

const gitConfigPrefix = "lk."

// configRunner runs git config; tests replace it with a scripted runner.
var configRunner git.Runner = git.ExecRunner{}

// runGitConfig executes git config command and returns raw output.
func runGitConfig(ctx context.Context, args []string, repoPath string) (string, error) {
	res, err := configRunner.Run(ctx, git.Repository{Dir: repoPath}, args...)
	if err != nil {
		return "", err
	}
	switch res.ExitCode {
	case 0:
		return res.Stdout, nil
	case 1:
		// git config returns exit code 1 when no key matches
		return "", nil
	default:
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), res.Detail())
	}
}

// parseGitConfigOutput parses git config output into multi-value map.
// Input format: "lk.remote upstream\nlk.force_delete true\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, " ")
		key = strings.TrimPrefix(strings.ToLower(key), gitConfigPrefix)
		if key == "" {
			continue
		}
		if !found {
			// a key set without value is a boolean true in git config
			value = "true"
		}
		configMap[key] = append(configMap[key], value)
	}

	return configMap
}

// convertGitConfigToParseConfig converts to format expected by applyConfig().
func convertGitConfigToParseConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, values := range gitCfg {
		switch len(values) {
		case 0:
			continue
		case 1:
			result[key] = values[0]
		default:
			anySlice := make([]any, len(values))
			for i, v := range values {
				anySlice[i] = v
			}
			result[key] = anySlice
		}
	}

	return result
}

// loadGitConfig reads lk.* values from the global or local git config.
func loadGitConfig(ctx context.Context, globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config"}
	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}
	args = append(args, "--get-regexp", `^lk\.`)

	output, err := runGitConfig(ctx, args, repoPath)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return make(map[string]any), nil
	}

	return convertGitConfigToParseConfig(parseGitConfigOutput(output)), nil
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}
	res, err := configRunner.Run(ctx, git.Repository{Dir: path}, "rev-parse", "--git-dir")
	return err == nil && res.OK()
}

// parseCLIConfigOverrides parses --config=lk.key=value format.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, found := strings.Cut(override, "=")
		if !found {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lk.key=value (note: use = not space)", override)
		}

		if !strings.HasPrefix(fullKey, gitConfigPrefix) {
			return nil, fmt.Errorf("config override key must start with 'lk.': %q", fullKey)
		}

		key := strings.TrimPrefix(fullKey, gitConfigPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		switch existing := result[key].(type) {
		case nil:
			result[key] = value
		case string:
			result[key] = []any{existing, value}
		case []any:
			result[key] = append(existing, value)
		}
	}

	return result, nil
}
