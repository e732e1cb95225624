/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"os"

	"charm.land/lipgloss/v2"
)

// Styles contains all the styles for rendering change set output
type Styles struct {
	// Action styles
	Added    lipgloss.Style
	Removed  lipgloss.Style
	Modified lipgloss.Style
	Imported lipgloss.Style
	Dynamic  lipgloss.Style

	Header    lipgloss.Style
	Key       lipgloss.Style
	Value     lipgloss.Style
	Arrow     lipgloss.Style
	Subtle    lipgloss.Style
	Bold      lipgloss.Style
	Warning   lipgloss.Style
	RiskHigh  lipgloss.Style
	Separator lipgloss.Style

	// Whether colours are enabled
	UseColour bool
}

// NewStyles creates styles. Colours are optimised based on terminal
// background (dark vs light); without colour every style renders text as-is.
func NewStyles(useColour bool) *Styles {
	s := &Styles{UseColour: useColour}

	if !useColour {
		plainStyle := lipgloss.NewStyle()

		s.Added = plainStyle
		s.Removed = plainStyle
		s.Modified = plainStyle
		s.Imported = plainStyle
		s.Dynamic = plainStyle
		s.Header = plainStyle
		s.Key = plainStyle
		s.Value = plainStyle
		s.Arrow = plainStyle
		s.Subtle = plainStyle
		s.Bold = plainStyle
		s.Warning = plainStyle
		s.RiskHigh = plainStyle
		s.Separator = plainStyle
		return s
	}

	hasDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	var (
		headerText    string
		warningText   string
		keyText       string
		subtleText    string
		separatorText string
		activeText    string
		errorText     string
	)

	if hasDark {
		headerText = "12"     // Bright Blue
		warningText = "11"    // Yellow
		keyText = "14"        // Cyan
		subtleText = "8"      // Dark Grey
		separatorText = "243" // Medium Grey
		activeText = "13"     // Magenta
		errorText = "9"       // Red
	} else {
		headerText = "4"      // Blue
		warningText = "3"     // Yellow/Brown
		keyText = "6"         // Cyan
		subtleText = "8"      // Grey
		separatorText = "242" // Medium Grey
		activeText = "5"      // Magenta
		errorText = "1"       // Red
	}

	// traditional red/green diff colours regardless of background
	s.Added = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	s.Removed = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	s.Modified = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	s.Imported = lipgloss.NewStyle().Foreground(lipgloss.Color(keyText))
	s.Dynamic = lipgloss.NewStyle().Foreground(lipgloss.Color(activeText))

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(headerText))

	s.Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color(keyText))

	s.Value = lipgloss.NewStyle()

	s.Arrow = lipgloss.NewStyle().
		Foreground(lipgloss.Color(separatorText))

	s.Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(subtleText))

	s.Bold = lipgloss.NewStyle().Bold(true)

	s.Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color(warningText)).
		Bold(true)

	s.RiskHigh = lipgloss.NewStyle().
		Foreground(lipgloss.Color(errorText)).
		Bold(true)

	s.Separator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(separatorText))

	return s
}

// ActionSymbol returns the symbol for a change set action
func (s *Styles) ActionSymbol(action string) string {
	switch action {
	case ActionAdd:
		return s.Added.Render("+")
	case ActionModify:
		return s.Modified.Render("~")
	case ActionRemove:
		return s.Removed.Render("-")
	case ActionImport:
		return s.Imported.Render("<")
	case ActionDynamic:
		return s.Dynamic.Render("*")
	default:
		return "?"
	}
}

// ChangeSymbol returns the symbol for a parameter or tag change
func (s *Styles) ChangeSymbol(changeType ChangeType) string {
	switch changeType {
	case ChangeTypeAdd:
		return s.Added.Render("+")
	case ChangeTypeModify:
		return s.Modified.Render("~")
	case ChangeTypeRemove:
		return s.Removed.Render("-")
	default:
		return "?"
	}
}

// ShouldUseColour determines if colour output should be used
func ShouldUseColour() bool {
	// Check NO_COLOR environment variable (https://no-color.org/)
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
