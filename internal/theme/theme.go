// Package theme provides the colour palettes used when printing reports.
package theme

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colours a report is drawn with.
type Theme struct {
	Accent    lipgloss.Color // headers
	MutedFg   lipgloss.Color // skipped branches, upstream names
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	SolarizedDarkName   = "solarized-dark"
	SolarizedLightName  = "solarized-light"
	GruvboxDarkName     = "gruvbox-dark"
	GruvboxLightName    = "gruvbox-light"
	NordName            = "nord"
	MonokaiName         = "monokai"
	CatppuccinMochaName = "catppuccin-mocha"
)

var palettes = map[string]Theme{
	DraculaName: {
		Accent: "#BD93F9", MutedFg: "#6272A4", TextFg: "#F8F8F2",
		SuccessFg: "#50FA7B", WarnFg: "#FFB86C", ErrorFg: "#FF5555",
	},
	DraculaLightName: {
		Accent: "#7C3AED", MutedFg: "#6E7781", TextFg: "#24292F",
		SuccessFg: "#059669", WarnFg: "#D97706", ErrorFg: "#DC2626",
	},
	SolarizedDarkName: {
		Accent: "#268BD2", MutedFg: "#586E75", TextFg: "#EEE8D5",
		SuccessFg: "#859900", WarnFg: "#B58900", ErrorFg: "#DC322F",
	},
	SolarizedLightName: {
		Accent: "#268BD2", MutedFg: "#93A1A1", TextFg: "#073642",
		SuccessFg: "#859900", WarnFg: "#B58900", ErrorFg: "#DC322F",
	},
	GruvboxDarkName: {
		Accent: "#FABD2F", MutedFg: "#928374", TextFg: "#EBDBB2",
		SuccessFg: "#B8BB26", WarnFg: "#FABD2F", ErrorFg: "#FB4934",
	},
	GruvboxLightName: {
		Accent: "#D79921", MutedFg: "#7C6F64", TextFg: "#3C3836",
		SuccessFg: "#79740E", WarnFg: "#D79921", ErrorFg: "#9D0006",
	},
	NordName: {
		Accent: "#88C0D0", MutedFg: "#81A1C1", TextFg: "#E5E9F0",
		SuccessFg: "#A3BE8C", WarnFg: "#EBCB8B", ErrorFg: "#BF616A",
	},
	MonokaiName: {
		Accent: "#A6E22E", MutedFg: "#75715E", TextFg: "#F8F8F2",
		SuccessFg: "#A6E22E", WarnFg: "#FD971F", ErrorFg: "#F92672",
	},
	CatppuccinMochaName: {
		Accent: "#B4BEFE", MutedFg: "#6C7086", TextFg: "#CDD6F4",
		SuccessFg: "#A6E3A1", WarnFg: "#F9E2AF", ErrorFg: "#F38BA8",
	},
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	t, ok := palettes[NormalizeName(name)]
	if !ok {
		t = palettes[DraculaName]
	}
	return &t
}

// NormalizeName returns the canonical theme name, or "" when unknown.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := palettes[name]; ok {
		return name
	}
	return ""
}

// DefaultName is the theme used when none is configured.
func DefaultName() string {
	return DraculaName
}

// AvailableThemes returns the sorted list of theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
