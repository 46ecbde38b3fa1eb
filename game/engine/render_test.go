package engine

import (
	"strings"
	"testing"
)

func TestFormatTile(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "    "},
		{2, "   2"},
		{64, "  64"},
		{2048, "2048"},
		{16384, "16384"},
	}

	for _, tt := range tests {
		if got := FormatTile(tt.value); got != tt.want {
			t.Errorf("FormatTile(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestTileColors(t *testing.T) {
	if TileColor(0, 2048) != ColorEmpty {
		t.Error("Expected empty colour for 0")
	}
	if TileColor(2048, 2048) != ColorTarget {
		t.Error("Expected highlight colour for target")
	}
	for _, v := range []int{2, 4, 1024, 4096} {
		if TileColor(v, 2048) != ColorTile {
			t.Errorf("Expected uniform colour for %d", v)
		}
	}
	if TileBackground(0) != BackgroundEmpty || TileBackground(8) != BackgroundTile {
		t.Error("Unexpected tile backgrounds")
	}
}

func TestBanner(t *testing.T) {
	tests := []struct {
		name  string
		state GameState
		want  string
	}{
		{"in progress", GameState{Target: 2048}, ""},
		{"won", GameState{Target: 2048, Won: true}, "You won! You reached 2048! Press R to continue or Q to quit."},
		{"over", GameState{Target: 2048, Over: true, Score: 123}, "Game Over! Final Score: 123. Press R to restart or Q to quit."},
		{"over hides won", GameState{Target: 2048, Won: true, Over: true, Score: 9}, "Game Over! Final Score: 9. Press R to restart or Q to quit."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Banner(&tt.state); got != tt.want {
				t.Errorf("Banner() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	state := &GameState{
		Board:  Board{{2, 0, 0, 2048}},
		Score:  42,
		Target: 2048,
	}

	out := Render(state)
	for _, want := range []string{"Score: 42", "|   2|    |    |2048|", Controls, "Goal: Combine tiles to reach 2048!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in render output:\n%s", want, out)
		}
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key  string
		kind ActionKind
		dir  Direction
	}{
		{"w", ActionMove, Up},
		{"W", ActionMove, Up},
		{"ArrowUp", ActionMove, Up},
		{"up", ActionMove, Up},
		{"s", ActionMove, Down},
		{"ArrowDown", ActionMove, Down},
		{"a", ActionMove, Left},
		{"left", ActionMove, Left},
		{"d", ActionMove, Right},
		{"ArrowRight", ActionMove, Right},
		{"r", ActionRestart, ""},
		{"Q", ActionExit, ""},
		{"enter", ActionNone, ""},
		{"", ActionNone, ""},
	}

	for _, tt := range tests {
		action := ParseKey(tt.key)
		if action.Kind != tt.kind || action.Direction != tt.dir {
			t.Errorf("ParseKey(%q) = %+v, want kind %s dir %q", tt.key, action, tt.kind, tt.dir)
		}
	}
}

func TestParseDirection(t *testing.T) {
	if d, ok := ParseDirection(" LEFT "); !ok || d != Left {
		t.Errorf("Expected left, got %q %v", d, ok)
	}
	if _, ok := ParseDirection("north"); ok {
		t.Error("Expected north to be rejected")
	}
}
