// Package bootstrap builds the lk command line and wires configuration,
// logging and the git service into the cli operations.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/chmouel/loki/internal/config"
	"github.com/chmouel/loki/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "repo",
			Aliases: []string{"C"},
			Usage:   "Run as if lk was started in `DIR`",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:  "config",
			Usage: "Override config values (repeatable): --config=lk.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Print debug messages to stderr",
		},
		&urfavecli.StringFlag{
			Name:      "color",
			Usage:     "Colour the report: auto, always or never",
			Validator: validateColorMode,
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Report theme: " + strings.Join(theme.AvailableThemes(), ", "),
			Validator: func(value string) error {
				if value != "" && theme.NormalizeName(value) == "" {
					return fmt.Errorf("unknown theme %q", value)
				}
				return nil
			},
		},
	}
}

func validateColorMode(value string) error {
	switch value {
	case "", config.ColorAuto, config.ColorAlways, config.ColorNever:
		return nil
	}
	return fmt.Errorf("invalid colour mode %q (expected auto, always or never)", value)
}

func forceDeleteFlag() urfavecli.Flag {
	return &urfavecli.BoolFlag{
		Name:    "force-delete",
		Aliases: []string{"D"},
		Usage:   "Delete orphaned branches even if they are not merged (git branch -D)",
	}
}

func quietFlag() urfavecli.Flag {
	return &urfavecli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Do not echo the fetch or pull output",
	}
}
