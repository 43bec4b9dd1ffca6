package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Styles holds the terminal styles used by commands. Colors degrade
// according to the renderer's color profile.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Underline(true),
		Header2:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Error:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Warning:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		Info:     r.NewStyle().Foreground(lipgloss.Color("4")),
		FilePath: r.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
	}
}

// Severity returns the style for a severity.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}
