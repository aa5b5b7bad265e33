package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for text-mode rendering.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Status icons carry their glyph via SetString so callers can use
	// String() directly.
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusInfo    lipgloss.Style
}

func newStyles() *Styles {
	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		StatusSuccess: lipgloss.NewStyle().SetString("OK").Foreground(lipgloss.Color("10")),
		StatusWarning: lipgloss.NewStyle().SetString("WARN").Foreground(lipgloss.Color("11")),
		StatusInfo:    lipgloss.NewStyle().SetString("INFO").Foreground(lipgloss.Color("12")),
	}
}
