package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/clpmix/internal/label"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== Cleaner ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// Danger and Warning color the signal word.
	Danger  lipgloss.Style
	Warning lipgloss.Style

	// Token styles a classification token.
	Token lipgloss.Style

	// Code styles H and P statement codes.
	Code lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),

		Token: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Code:  lipgloss.NewStyle().Bold(true),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(16),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// SignalStyle returns the style for a signal word.
func (s Styles) SignalStyle(w label.SignalWord) lipgloss.Style {
	switch w {
	case label.Danger:
		return s.Danger
	case label.Warning:
		return s.Warning
	default:
		return s.Muted
	}
}
