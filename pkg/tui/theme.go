package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harveywai/leadflow/pkg/render"
)

// Theme holds the styles of the terminal dashboard.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Card      lipgloss.Style
	Modal     lipgloss.Style
	Link      lipgloss.Style

	// Badges maps a badge class to its foreground color.
	Badges map[string]lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f8fafc")),
	Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")),
	TabActive: lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("#1e293b")).Foreground(lipgloss.Color("#f8fafc")),
	Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#94a3b8")),
	Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#94a3b8")),
	Selected:  lipgloss.NewStyle().Background(lipgloss.Color("#1e293b")),
	Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")),
	Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f43f5e")),
	Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#334155")).Padding(0, 1),
	Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#10b981")).Padding(1, 2),
	Link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#10b981")),

	Badges: map[string]lipgloss.Color{
		"status-todo":        lipgloss.Color("#f59e0b"),
		"status-in-progress": lipgloss.Color("#3b82f6"),
		"status-complete":    lipgloss.Color("#10b981"),
		"priority-urgent":    lipgloss.Color("#ef4444"),
		"priority-high":      lipgloss.Color("#f97316"),
		"priority-normal":    lipgloss.Color("#6366f1"),
		"priority-low":       lipgloss.Color("#94a3b8"),
	},
}

// badge renders b in its class color.
func (t Theme) badge(b render.Badge) string {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := t.Badges[b.Class]; ok {
		style = style.Foreground(c)
	}
	return style.Render(b.Text)
}

// accent renders s in a hex accent color.
func (t Theme) accent(hex, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}
