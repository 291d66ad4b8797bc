package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"prospectflow/internal/model"
)

// Theme encapsulates the visual palette for the tracker UI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Accent      lipgloss.Style
	Primary     lipgloss.Style
	Secondary   lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Danger      lipgloss.Style
	Faint       lipgloss.Style
	Highlight   lipgloss.Style
	Border      lipgloss.Style
	HelpKey     lipgloss.Style
	HelpValue   lipgloss.Style
	NavActive   lipgloss.Style
	NavInactive lipgloss.Style
	Badge       lipgloss.Style
	Bar         lipgloss.Style
}

// Default returns a high-contrast palette that plays nicely with common terminals.
func Default() Theme {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("210"))
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true).Underline(true),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("219")).Bold(true),
		Primary:     base.Copy().Foreground(lipgloss.Color("81")),
		Secondary:   lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("227")).Bold(true),
		Danger:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Faint:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HelpKey:     lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
		HelpValue:   lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		NavActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("213")).Bold(true).Padding(0, 1),
		NavInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Padding(0, 1),
		Badge:       lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("203")).Bold(true).Padding(0, 1),
		Bar:         lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
	}
}

// Feedback picks the style used for an interaction outcome, warmest first.
func (t Theme) Feedback(f model.Feedback) lipgloss.Style {
	switch f {
	case model.FeedbackQualified:
		return t.Success
	case model.FeedbackBookNextMeeting:
		return t.Accent
	case model.FeedbackSendMoreInfo:
		return t.Primary
	case model.FeedbackNoAnswer:
		return t.Warning
	case model.FeedbackNotInterested:
		return t.Danger
	}
	return t.Secondary
}

// RenderBar draws a horizontal bar of value scaled against max within width cells.
func (t Theme) RenderBar(value, max, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = value * width / max
		if filled == 0 {
			filled = 1
		}
	}
	if filled > width {
		filled = width
	}
	return t.Bar.Render(strings.Repeat("█", filled)) + t.Faint.Render(strings.Repeat("░", width-filled))
}
