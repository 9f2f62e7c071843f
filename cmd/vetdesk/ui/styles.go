// Package ui is the terminal front end for the clinic portal: a Bubble Tea
// model tree with one page per screen and a global search overlay on top.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette for the vetdesk brand. Adaptive pairs keep the text readable on
// both light and dark terminals.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#2dd4bf"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#374151"}
	colorDanger  = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
)

// Styles holds the styled components shared by all pages.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	Card       lipgloss.Style
	Selected   lipgloss.Style
	GroupLabel lipgloss.Style
	Badge      lipgloss.Style
	Overlay    lipgloss.Style
	Bar        lipgloss.Style
}

// DefaultStyles builds the vetdesk style sheet.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorPrimary).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(colorAccent),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorAccent),

		GroupLabel: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Background(colorPrimary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),

		Bar: lipgloss.NewStyle().
			Foreground(colorPrimary),
	}
}

// statusStyle colors an appointment or patient status label.
func (s Styles) statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed", "active", "confirmed":
		return s.Success
	case "cancelled", "no_show", "deceased":
		return s.Error
	case "checked_in", "in_progress":
		return s.Warning
	default:
		return s.Muted
	}
}

// swatch renders a two-cell color block for an appointment type color.
// Unknown or empty colors fall back to a neutral dot.
func swatch(hex string) string {
	if hex == "" {
		return "· "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■ ")
}

// RenderDivider draws a horizontal rule.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
