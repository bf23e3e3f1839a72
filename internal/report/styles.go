// SPDX-License-Identifier: MPL-2.0

package report

import "github.com/charmbracelet/lipgloss"

// Palette shared with the CLI so explain output matches other command output.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)

	// Column accents, indexed by column.
	providerColumnStyles = []lipgloss.Style{
		cellStyle.Foreground(ColorHighlight),
		cellStyle.Foreground(ColorPrimary),
		cellStyle.Foreground(ColorSuccess),
		cellStyle.Foreground(ColorWarning),
	}
	injectorColumnStyles = []lipgloss.Style{
		cellStyle.Foreground(ColorHighlight),
		cellStyle.Foreground(ColorPrimary),
		cellStyle,
		cellStyle.Foreground(ColorWarning),
	}
)
