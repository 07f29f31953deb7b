// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is used for recipe titles and headers.
	ColorPrimary = lipgloss.Color("#D97706")

	// ColorMuted is used for directories, notes and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is used for checkmarks and clean results.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is used for failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is used for problems that do not stop the command.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is used for recipe names and quantities.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// RecipeStyle is for recipe names.
	RecipeStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// QuantityStyle is for amounts in shopping lists.
	QuantityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)

	// keyStyle is for configuration keys in "config show".
	keyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// valueStyle is for configuration values in "config show".
	valueStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)
