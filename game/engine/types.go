package engine

import "strings"

// Size is the width and height of the board
const Size = 4

// Direction names one of the four move directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every move direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// Valid reports whether d is one of the four move directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// ParseDirection converts user input into a Direction (case-insensitive)
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Status represents the coarse game status
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusOver       Status = "over"
)

// Board is the tile grid indexed [row][col]; 0 marks an empty cell
type Board [Size][Size]int

// Position represents row/column coordinates on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameState represents the complete game state
type GameState struct {
	Board  Board  `json:"board"`
	Score  int    `json:"score"`
	Won    bool   `json:"won"`
	Over   bool   `json:"over"`
	Status Status `json:"status"`
	Target int    `json:"target"`
	Moves  int    `json:"moves"`

	LastMove *MoveRecord `json:"last_move,omitempty"`
}

// MoveRecord describes the most recent committed move
type MoveRecord struct {
	Direction Direction `json:"direction"`
	Gained    int       `json:"gained"`
	Merges    int       `json:"merges"`
	Spawned   *Position `json:"spawned,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// refreshStatus derives Status from the Won/Over flags. Over wins over Won.
func (gs *GameState) refreshStatus() {
	switch {
	case gs.Over:
		gs.Status = StatusOver
	case gs.Won:
		gs.Status = StatusWon
	default:
		gs.Status = StatusInProgress
	}
}

// EmptyCells returns the coordinates of every empty cell in row-major order
func (b Board) EmptyCells() []Position {
	var cells []Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// TileCount counts the non-empty cells
func (b Board) TileCount() int {
	count := 0
	for _, row := range b {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// MaxTile returns the largest tile on the board
func (b Board) MaxTile() int {
	max := 0
	for _, row := range b {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// IsPowerOfTwo reports whether v is a positive power of two
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}
