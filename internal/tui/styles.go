// internal/tui/styles.go
//
// Lipgloss styles. Tokens are tinted by kind.

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/figrac0/quantum-game/internal/game"
)

type styles struct {
	Title    lipgloss.Style
	Stat     lipgloss.Style
	Muted    lipgloss.Style
	Code     lipgloss.Style
	Slot     lipgloss.Style
	SlotSel  lipgloss.Style
	Hint     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Summary  lipgloss.Style
	kindTint map[game.Kind]lipgloss.Color
}

func defaultStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Stat:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Code:    lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#374151")),
		Slot:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		SlotSel: lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")).Background(lipgloss.Color("#F59E0B")),
		Hint:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#60A5FA")),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		Summary: lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7C3AED")),
		kindTint: map[game.Kind]lipgloss.Color{
			game.KindOperator:   "#F472B6",
			game.KindKeyword:    "#A78BFA",
			game.KindMethod:     "#34D399",
			game.KindProperty:   "#FBBF24",
			game.KindExpression: "#60A5FA",
		},
	}
}

// element renders a token in its kind's colour.
func (s styles) element(el game.Element) string {
	c, ok := s.kindTint[el.Kind]
	if !ok {
		c = "#E5E7EB"
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(el.Value)
}
