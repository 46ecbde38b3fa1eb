package main

import (
	"github.com/keuhdall/termfolio/game/engine"
)

// Heuristic weights
const (
	emptyWeight     = 270
	mergeWeight     = 1
	monotonicWeight = 47
	cornerWeight    = 500
)

// CornerStrategy keeps the largest tile in the bottom-left corner and the
// rows sorted toward it. It looks one move ahead.
type CornerStrategy struct {
	preference []engine.Direction
}

func NewCornerStrategy() *CornerStrategy {
	return &CornerStrategy{
		preference: []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up},
	}
}

// NextMove returns the best direction for board, or "" when nothing moves
func (s *CornerStrategy) NextMove(board engine.Board) engine.Direction {
	var best engine.Direction
	bestScore := 0

	for _, dir := range s.preference {
		outcome := engine.ApplyMove(board, dir)
		if !outcome.Moved {
			continue
		}
		score := evaluate(outcome.Board) + outcome.Gained*mergeWeight
		if best == "" || score > bestScore {
			best, bestScore = dir, score
		}
	}

	return best
}

// evaluate scores a board after a move, before the next spawn
func evaluate(board engine.Board) int {
	score := len(board.EmptyCells()) * emptyWeight
	score += monotonicity(board) * monotonicWeight

	if board[engine.Size-1][0] == board.MaxTile() {
		score += cornerWeight
	}
	return score
}

// monotonicity counts neighbour pairs that decrease away from the
// bottom-left corner
func monotonicity(board engine.Board) int {
	count := 0
	for r := 0; r < engine.Size; r++ {
		for c := 0; c < engine.Size; c++ {
			if c+1 < engine.Size && board[r][c] >= board[r][c+1] {
				count++
			}
			if r > 0 && board[r][c] >= board[r-1][c] {
				count++
			}
		}
	}
	return count
}
