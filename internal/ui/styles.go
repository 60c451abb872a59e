// Package ui provides consistent styling and the inline status display for
// the cursorlock CLI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray

	ColorLocked   = ColorSuccess
	ColorUnlocked = ColorSubtle
)

// Base styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorMuted).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Status indicators
var (
	LockedIndicator = lipgloss.NewStyle().
			Foreground(ColorLocked).
			Render("●")

	UnlockedIndicator = lipgloss.NewStyle().
				Foreground(ColorUnlocked).
				Render("○")
)

// Control help styles
var (
	ControlKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	ControlDescStyle = lipgloss.NewStyle().
				Foreground(ColorText)
)

// Icons for consistent app-wide usage
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "i"
)

// FormatControl renders a "key - description" help entry.
func FormatControl(key, desc string) string {
	return ControlKeyStyle.Render(key) + " - " + ControlDescStyle.Render(desc)
}

// FormatLockState renders the colored indicator plus a state label.
func FormatLockState(locked bool) string {
	if locked {
		return LockedIndicator + " " + SuccessStyle.Render("LOCKED")
	}
	return UnlockedIndicator + " " + SubtleStyle.Render("unlocked")
}

// FormatKeyValue renders an aligned "key: value" line.
func FormatKeyValue(key, value string) string {
	return SubtleStyle.Render(key+":") + " " + TextStyle.Render(value)
}

// CreateSeparator renders a horizontal rule of the given width.
func CreateSeparator(width int, char string) string {
	return SubtleStyle.Render(strings.Repeat(char, width))
}
