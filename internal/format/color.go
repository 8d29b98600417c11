package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ApplyColor sets the lipgloss color profile for text output. "auto" honors
// NO_COLOR and CLICOLOR/CLICOLOR_FORCE and otherwise follows the terminal.
func ApplyColor(mode string) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		profile := termenv.EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
		lipgloss.SetColorProfile(profile)
	default:
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}
}

// Plain reports whether text output carries no ANSI styling.
func Plain() bool {
	return lipgloss.ColorProfile() == termenv.Ascii
}
