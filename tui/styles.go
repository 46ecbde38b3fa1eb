package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/keuhdall/termfolio/game/engine"
)

// Styles holds the lipgloss styles used by the view
type Styles struct {
	Prompt  lipgloss.Style
	Input   lipgloss.Style
	Output  lipgloss.Style
	Pending lipgloss.Style
	Cursor  lipgloss.Style

	Title  lipgloss.Style
	Score  lipgloss.Style
	Banner lipgloss.Style
	Help   lipgloss.Style
	Board  lipgloss.Style
}

// DefaultStyles returns the green-on-black terminal look
func DefaultStyles() Styles {
	green := lipgloss.Color(engine.ColorTile)
	return Styles{
		Prompt:  lipgloss.NewStyle().Foreground(green).Bold(true),
		Input:   lipgloss.NewStyle().Foreground(green),
		Output:  lipgloss.NewStyle().Foreground(green),
		Pending: lipgloss.NewStyle().Foreground(green).Faint(true),
		Cursor:  lipgloss.NewStyle().Foreground(green).Blink(true),

		Title:  lipgloss.NewStyle().Foreground(green).Bold(true).MarginBottom(1),
		Score:  lipgloss.NewStyle().Foreground(green),
		Banner: lipgloss.NewStyle().Foreground(lipgloss.Color(engine.ColorTarget)).Bold(true),
		Help:   lipgloss.NewStyle().Foreground(green).Faint(true),
		Board:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(green),
	}
}

// tileStyle colours one board cell
func tileStyle(value, target int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(engine.TileWidth + 2).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(lipgloss.Color(engine.TileColor(value, target))).
		Background(lipgloss.Color(engine.TileBackground(value)))
}
