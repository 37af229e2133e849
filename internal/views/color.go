package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DisableColor drops every colour and attribute from rendered output. Used for
// --no-color, NO_COLOR and piped command output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
