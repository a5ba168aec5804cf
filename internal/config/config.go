// Package config loads loki settings from YAML, git config and the command line.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chmouel/loki/internal/theme"
	"github.com/chmouel/loki/internal/utils"
	"gopkg.in/yaml.v3"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewPrefixEnv overrides the new_prefix setting for the new command.
const NewPrefixEnv = "LOKI_NEW_PREFIX"

// AppConfig defines the global loki configuration options.
type AppConfig struct {
	Remote      string // remote used by new and push (default: "origin")
	NewPrefix   string // prepended to every branch created by new
	ForceDelete bool   // delete orphaned branches with -D instead of -d
	Color       string // "auto", "always" or "never"
	Theme       string
	DebugLog    string
	EchoOutput  bool // print the fetch/pull output before the report
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Remote:     "origin",
		Color:      ColorAuto,
		Theme:      theme.DefaultName(),
		EchoOutput: true,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

// lastString returns the value of key as a trimmed string. Multi-valued
// keys (repeated in git config or on the command line) keep the last value.
func lastString(data map[string]any, key string) (string, bool) {
	value, ok := data[key]
	if !ok || value == nil {
		return "", false
	}
	if list, isList := value.([]any); isList {
		if len(list) == 0 {
			return "", false
		}
		value = list[len(list)-1]
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value)), true
}

func lastValue(data map[string]any, key string) any {
	value := data[key]
	if list, isList := value.([]any); isList {
		if len(list) == 0 {
			return nil
		}
		return list[len(list)-1]
	}
	return value
}

// applyConfig layers data on top of cfg. Unknown keys and invalid values
// leave the current setting untouched.
func applyConfig(cfg *AppConfig, data map[string]any) {
	if remote, ok := lastString(data, "remote"); ok && remote != "" {
		cfg.Remote = remote
	}
	if prefix, ok := lastString(data, "new_prefix"); ok {
		cfg.NewPrefix = prefix
	}
	if debugLog, ok := lastString(data, "debug_log"); ok && debugLog != "" {
		cfg.DebugLog = debugLog
	}
	if color, ok := lastString(data, "color"); ok {
		switch color = strings.ToLower(color); color {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.Color = color
		}
	}
	if themeName, ok := lastString(data, "theme"); ok {
		if normalized := theme.NormalizeName(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}

	cfg.ForceDelete = coerceBool(lastValue(data, "force_delete"), cfg.ForceDelete)
	cfg.EchoOutput = coerceBool(lastValue(data, "echo_output"), cfg.EchoOutput)
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyConfig(cfg, data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// loadYAML reads the first config file found. A missing file is not an error.
func loadYAML(configPath string) (map[string]any, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "loki"))

	var paths []string
	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return nil, err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return nil, err
		}
		if !isPathWithin(configBase, absPath) {
			return nil, fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return yamlData, nil
	}
	return map[string]any{}, nil
}

// LoadConfig builds the configuration from defaults, the YAML file, the
// global git config and then the repository's local git config.
// On error the returned config is still usable and holds what was loaded so far.
func LoadConfig(ctx context.Context, configPath, repoPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	yamlData, err := loadYAML(configPath)
	if err != nil {
		return cfg, err
	}
	applyConfig(cfg, yamlData)

	globalData, err := loadGitConfig(ctx, true, repoPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read global git config: %w", err)
	}
	applyConfig(cfg, globalData)

	if repoPath != "" && isInGitRepo(ctx, repoPath) {
		localData, err := loadGitConfig(ctx, false, repoPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read local git config: %w", err)
		}
		applyConfig(cfg, localData)
	}

	return cfg, nil
}

// ApplyCLIOverrides applies --config lk.key=value overrides, the highest precedence layer.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfig(cfg, data)
	return nil
}

// ResolveNewPrefix returns the branch prefix for the new command and
// whether it came from the environment.
func (cfg *AppConfig) ResolveNewPrefix() (string, bool) {
	if prefix, ok := os.LookupEnv(NewPrefixEnv); ok {
		return prefix, true
	}
	return cfg.NewPrefix, false
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
