package ux

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles are the lipgloss styles shared by the CLI and the terminal UI
type Styles struct {
	NoColor bool

	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
}

// NewStyles returns the palette, or plain styles when noColor is set
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			NoColor:  true,
			Title:    plain,
			Subtle:   plain,
			Accent:   plain,
			Error:    plain,
			Success:  plain,
			Warning:  plain,
			Header:   plain,
			Selected: plain,
			Border:   plain,
		}
	}

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Border:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

// Table renders rows under a header row
func (s Styles) Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(s.Header)
			}
			return style
		})
	return t.String()
}
