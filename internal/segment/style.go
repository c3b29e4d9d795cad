// pattern: Imperative Shell

package segment

import (
	"io"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode controls whether the segment carries ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode maps a config value to a ColorMode, defaulting to auto.
func ParseColorMode(s string) ColorMode {
	switch ColorMode(s) {
	case ColorAlways, ColorNever:
		return ColorMode(s)
	default:
		return ColorAuto
	}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

// profileFor picks the color profile for out. Auto only colors real terminals.
func profileFor(mode ColorMode, out io.Writer) termenv.Profile {
	switch mode {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		return termenv.TrueColor
	}

	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return termenv.Ascii
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return termenv.Ascii
	}
	return termenv.NewOutput(out).EnvColorProfile()
}

func newStyle(theme string, profile termenv.Profile, out io.Writer) lipgloss.Style {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)
	return r.NewStyle().
		Foreground(lipgloss.Color(flavorFromName(theme).Red().Hex)).
		Bold(true)
}
