package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Path    lipgloss.Style
}

// NewStyles builds the style set. With styling disabled every style is a
// pass-through, so markdown and JSON output stay clean.
func NewStyles(enabled bool) *Styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1: plain, Header2: plain, Bold: plain, Muted: plain,
			Error: plain, Warning: plain, Info: plain, Success: plain, Path: plain,
		}
	}
	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Path:    lipgloss.NewStyle().Bold(true).Underline(true),
	}
}
