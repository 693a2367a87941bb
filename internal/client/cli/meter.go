package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/accountkeeper/internal/client/validation"
)

const meterSegments = 3

// renderStrength draws the password strength meter, or "" for an empty
// password.
func renderStrength(pwd string) string {
	s := validation.Classify(pwd)
	if s == validation.None {
		return ""
	}

	bar := strings.Repeat("■", s.Level()) + strings.Repeat("□", meterSegments-s.Level())
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.Color())).
		Render(bar + " " + s.String())
}

func (a *App) printStrength(pwd string) {
	if m := renderStrength(pwd); m != "" {
		a.println("Strength:", m)
	}
}
