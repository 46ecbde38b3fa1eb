package main

import (
	"testing"

	"github.com/keuhdall/termfolio/game/engine"
)

func TestCornerStrategy_NextMove(t *testing.T) {
	tests := []struct {
		name     string
		board    engine.Board
		expected engine.Direction
	}{
		{
			name: "Merges toward the corner",
			board: engine.Board{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{2, 2, 0, 0},
			},
			expected: engine.Left,
		},
		{
			name: "Ties follow preference order",
			board: engine.Board{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{0, 2, 4, 2},
			},
			expected: engine.Down,
		},
		{
			name: "Stuck board",
			board: engine.Board{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			expected: "",
		},
	}

	strategy := NewCornerStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strategy.NextMove(tt.board); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCornerStrategy_AlwaysLegal(t *testing.T) {
	strategy := NewCornerStrategy()
	board := engine.Board{
		{0, 2, 0, 4},
		{8, 0, 2, 0},
		{0, 16, 0, 2},
		{32, 0, 4, 0},
	}

	dir := strategy.NextMove(board)
	if dir == "" {
		t.Fatal("Expected a move")
	}
	if !engine.CanSlide(board, dir) {
		t.Errorf("Strategy chose %s, which does not move the board", dir)
	}
}

func TestEvaluate_PrefersEmptyCorneredBoards(t *testing.T) {
	cornered := engine.Board{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{2, 0, 0, 0},
		{8, 4, 2, 0},
	}
	scattered := engine.Board{
		{2, 0, 0, 8},
		{0, 4, 0, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 0},
	}

	if evaluate(cornered) <= evaluate(scattered) {
		t.Errorf("Expected cornered board (%d) to beat scattered board (%d)",
			evaluate(cornered), evaluate(scattered))
	}
}
