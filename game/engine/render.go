package engine

import (
	"fmt"
	"strings"
)

// Display constants
const (
	TileWidth = 4

	ColorEmpty  = "#000000"
	ColorTile   = "#00ff00"
	ColorTarget = "#ffff00"

	BackgroundEmpty = "#000000"
	BackgroundTile  = "#001100"

	Title    = "2048 Game"
	Help     = "Press Q to quit, R to restart"
	Controls = "Controls: WASD or Arrow Keys"
)

// FormatTile renders a tile value left-padded to TileWidth, blank when empty
func FormatTile(value int) string {
	if value == 0 {
		return strings.Repeat(" ", TileWidth)
	}
	return fmt.Sprintf("%*d", TileWidth, value)
}

// TileColor returns the foreground colour for a tile value
func TileColor(value, target int) string {
	switch {
	case value == 0:
		return ColorEmpty
	case value == target:
		return ColorTarget
	default:
		return ColorTile
	}
}

// TileBackground returns the cell background for a tile value
func TileBackground(value int) string {
	if value == 0 {
		return BackgroundEmpty
	}
	return BackgroundTile
}

// Goal returns the goal line shown under the board
func Goal(target int) string {
	return fmt.Sprintf("Goal: Combine tiles to reach %d!", target)
}

// Banner returns the status message for a state, or "" while in progress
func Banner(state *GameState) string {
	switch {
	case state.Over:
		return fmt.Sprintf("Game Over! Final Score: %d. Press R to restart or Q to quit.", state.Score)
	case state.Won:
		return fmt.Sprintf("You won! You reached %d! Press R to continue or Q to quit.", state.Target)
	}
	return ""
}

// Render draws the whole game view as plain text
func Render(state *GameState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Score: %d\n%s\n%s\n", state.Score, Title, Help)
	if banner := Banner(state); banner != "" {
		b.WriteString("\n" + banner + "\n")
	}
	b.WriteString("\n")

	border := "+" + strings.Repeat(strings.Repeat("-", TileWidth)+"+", Size) + "\n"
	b.WriteString(border)
	for _, row := range state.Board {
		b.WriteString("|")
		for _, v := range row {
			b.WriteString(FormatTile(v) + "|")
		}
		b.WriteString("\n" + border)
	}

	fmt.Fprintf(&b, "\n%s\n%s\n", Controls, Goal(state.Target))
	return b.String()
}
