package theme

import (
	"github.com/atomicstack/declui/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared by the terminal platform.
type Styles struct {
	MenuBar          *lipgloss.Style
	MenuTitle        *lipgloss.Style
	MenuTitleActive  *lipgloss.Style
	MenuItem         *lipgloss.Style
	MenuItemSelected *lipgloss.Style
	MenuAccel        *lipgloss.Style
	MenuBorder       *lipgloss.Style
	Text             *lipgloss.Style
	TextBold         *lipgloss.Style
	TextAccent       *lipgloss.Style
	Fill             *lipgloss.Style
	FillAccent       *lipgloss.Style
}

var defaultStyles = Styles{
	MenuBar: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Background(lipgloss.Color("236")),
	),
	MenuTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Background(lipgloss.Color("236")).Padding(0, 1),
	),
	MenuTitleActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true).Padding(0, 1),
	),
	MenuItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	MenuItemSelected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	MenuAccel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	MenuBorder: ptr(
		lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
	),
	Text: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	TextBold: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	TextAccent: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Fill: ptr(
		lipgloss.NewStyle().Background(lipgloss.Color("238")),
	),
	FillAccent: ptr(
		lipgloss.NewStyle().Background(lipgloss.Color("33")),
	),
}

// Default exposes the standard style set.
func Default() *Styles {
	return &defaultStyles
}

// ForText picks the text style matching a canvas style.
func (s *Styles) ForText(style render.Style) *lipgloss.Style {
	switch {
	case style.Accent:
		return s.TextAccent
	case style.Bold:
		return s.TextBold
	default:
		return s.Text
	}
}

// ForFill picks the background style matching a canvas style.
func (s *Styles) ForFill(style render.Style) *lipgloss.Style {
	if style.Accent {
		return s.FillAccent
	}
	return s.Fill
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
