package engine

// Rand is the randomness source used for tile spawning.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// MoveOutcome is the result of applying a directional transform to a board
type MoveOutcome struct {
	Board  Board
	Moved  bool
	Gained int
	Merged []int
}

// lineCells returns the coordinates of line i in traversal order: the head
// of the line is the edge tiles slide toward.
func lineCells(dir Direction, i int) [Size]Position {
	var cells [Size]Position
	for j := 0; j < Size; j++ {
		switch dir {
		case Left:
			cells[j] = Position{Row: i, Col: j}
		case Right:
			cells[j] = Position{Row: i, Col: Size - 1 - j}
		case Up:
			cells[j] = Position{Row: j, Col: i}
		case Down:
			cells[j] = Position{Row: Size - 1 - j, Col: i}
		}
	}
	return cells
}

// SlideLine compacts a line toward its head and merges equal neighbours.
// A merged tile never merges again within the same slide.
func SlideLine(line [Size]int) (out [Size]int, gained int, merged []int) {
	tiles := make([]int, 0, Size)
	for _, v := range line {
		if v != 0 {
			tiles = append(tiles, v)
		}
	}

	n := 0
	for j := 0; j < len(tiles); j++ {
		if j < len(tiles)-1 && tiles[j] == tiles[j+1] {
			v := tiles[j] * 2
			out[n] = v
			gained += v
			merged = append(merged, v)
			j++ // skip the consumed neighbour
		} else {
			out[n] = tiles[j]
		}
		n++
	}

	return out, gained, merged
}

// ApplyMove slides every line of the board in the given direction.
// The input board is not modified.
func ApplyMove(board Board, dir Direction) MoveOutcome {
	outcome := MoveOutcome{Board: board}
	if !dir.Valid() {
		return outcome
	}

	for i := 0; i < Size; i++ {
		cells := lineCells(dir, i)

		var line [Size]int
		for j, p := range cells {
			line[j] = board[p.Row][p.Col]
		}

		slid, gained, merged := SlideLine(line)
		if slid != line {
			outcome.Moved = true
		}
		for j, p := range cells {
			outcome.Board[p.Row][p.Col] = slid[j]
		}

		outcome.Gained += gained
		outcome.Merged = append(outcome.Merged, merged...)
	}

	return outcome
}

// SpawnTile places a 2 (or a 4 with probability fourProbability) on a
// uniformly chosen empty cell. It reports false when the board is full.
func SpawnTile(board *Board, rng Rand, fourProbability float64) (Position, bool) {
	empty := board.EmptyCells()
	if len(empty) == 0 {
		return Position{}, false
	}

	pos := empty[rng.IntN(len(empty))]
	value := 2
	if rng.Float64() >= 1-fourProbability {
		value = 4
	}
	board[pos.Row][pos.Col] = value

	return pos, true
}

// CheckOver reports whether the board has no empty cell and no pair of
// axis-adjacent equal tiles
func CheckOver(board Board) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if board[r][c] == 0 {
				return false
			}
		}
	}

	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := board[r][c]
			if (r > 0 && board[r-1][c] == v) ||
				(r < Size-1 && board[r+1][c] == v) ||
				(c > 0 && board[r][c-1] == v) ||
				(c < Size-1 && board[r][c+1] == v) {
				return false
			}
		}
	}

	return true
}

// CanSlide reports whether moving in dir would change the board
func CanSlide(board Board, dir Direction) bool {
	return ApplyMove(board, dir).Moved
}
