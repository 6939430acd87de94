package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Brand        lipgloss.Style
	Subtitle     lipgloss.Style
	Section      lipgloss.Style
	Form         lipgloss.Style
	FormActive   lipgloss.Style
	Label        lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	ShortURL     lipgloss.Style
	URL          lipgloss.Style
	Date         lipgloss.Style
	Clicks       lipgloss.Style
	Tag          lipgloss.Style
	Copied       lipgloss.Style
	Match        lipgloss.Style
	Suggestion   lipgloss.Style
	Panel        lipgloss.Style
	InsightPanel lipgloss.Style
	Spark        lipgloss.Style
	Bar          lipgloss.Style
	Empty        lipgloss.Style
	Help         lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
	HintLabel    lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	SeverityHigh lipgloss.Style
	SeverityMed  lipgloss.Style
	SeverityLow  lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Grayscale base with a blue accent and a violet AI panel.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	subtle := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	accent := lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
	violet := lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#8B5CF6"}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	green := lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	amber := lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Brand: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Subtitle: lipgloss.NewStyle().
			Foreground(subtle),

		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		FormActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(subtle),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		CardTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		ShortURL: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		URL: lipgloss.NewStyle().
			Foreground(subtle),

		Date: lipgloss.NewStyle().
			Foreground(subtle),

		Clicks: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Tag: lipgloss.NewStyle().
			Foreground(accent),

		Copied: lipgloss.NewStyle().
			Bold(true).
			Foreground(green),

		Match: lipgloss.NewStyle().
			Underline(true).
			Foreground(accent),

		Suggestion: lipgloss.NewStyle().
			Foreground(violet),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		InsightPanel: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(violet).
			Padding(0, 1),

		Spark: lipgloss.NewStyle().
			Foreground(accent),

		Bar: lipgloss.NewStyle().
			Foreground(accent),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0),

		HintKey: lipgloss.NewStyle().
			Foreground(primary),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		HintLabel: lipgloss.NewStyle().
			Foreground(subtle).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(red).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(green).
			Bold(true),

		SeverityHigh: lipgloss.NewStyle().Foreground(red).Bold(true),
		SeverityMed:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		SeverityLow:  lipgloss.NewStyle().Foreground(green).Bold(true),
	}
}

// severityStyle picks a style by insight severity; unknown values render as low.
func (s Styles) severityStyle(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return s.SeverityHigh
	case "medium":
		return s.SeverityMed
	default:
		return s.SeverityLow
	}
}
