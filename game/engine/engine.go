package engine

import (
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	IsWon() bool
	GetScore() int
	GetStatus() Status

	// Movement operations
	Move(direction Direction) bool
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction

	// Input
	HandleKey(key string) Action

	// Configuration
	GetConfig() *Config
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *Config
	rng    Rand
	onExit func()
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithRand sets the randomness source used for spawning tiles
func WithRand(rng Rand) Option {
	return func(e *GameEngine) {
		e.rng = rng
	}
}

// WithExitHandler sets the callback invoked when the exit key is pressed.
// The engine does not know what the host does with it.
func WithExitHandler(fn func()) Option {
	return func(e *GameEngine) {
		e.onExit = fn
	}
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// NewEngine creates a new game engine with the provided configuration and
// a freshly seeded board
func NewEngine(config *Config, opts ...Option) (*GameEngine, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		rng:    globalRand{},
	}
	for _, opt := range opts {
		opt(engine)
	}

	engine.Reset()
	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic rules
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	engine, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		// DefaultConfig always validates
		panic(err)
	}
	return engine
}

// GetState returns a copy of the current game state
func (e *GameEngine) GetState() *GameState {
	state := *e.state
	if e.state.LastMove != nil {
		last := *e.state.LastMove
		state.LastMove = &last
	}
	return &state
}

// Reset builds an empty board, spawns the starting tiles and clears score
// and flags. It is valid from any state.
func (e *GameEngine) Reset() *GameState {
	state := &GameState{Target: e.config.Target}
	for i := 0; i < e.config.StartTiles; i++ {
		SpawnTile(&state.Board, e.rng, e.config.FourProbability)
	}
	state.refreshStatus()

	e.state = state
	return e.GetState()
}

// IsGameOver returns whether no legal move remains
func (e *GameEngine) IsGameOver() bool {
	return e.state.Over
}

// IsWon returns whether the target tile has been reached
func (e *GameEngine) IsWon() bool {
	return e.state.Won
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetStatus returns the coarse game status
func (e *GameEngine) GetStatus() Status {
	return e.state.Status
}

// Move slides the board in the given direction. It returns false, leaving
// the state untouched, when the game is over or nothing would move.
func (e *GameEngine) Move(direction Direction) bool {
	if e.state.Over {
		return false
	}

	outcome := ApplyMove(e.state.Board, direction)
	if !outcome.Moved {
		return false
	}

	e.state.Board = outcome.Board
	for _, v := range outcome.Merged {
		if v == e.config.Target && !e.state.Won {
			e.state.Won = true
		}
	}

	record := &MoveRecord{
		Direction: direction,
		Gained:    outcome.Gained,
		Merges:    len(outcome.Merged),
		Timestamp: time.Now().Unix(),
	}
	if pos, ok := SpawnTile(&e.state.Board, e.rng, e.config.FourProbability); ok {
		record.Spawned = &pos
	}

	e.state.Score += outcome.Gained
	e.state.Moves++
	e.state.LastMove = record
	e.state.Over = CheckOver(e.state.Board)
	e.state.refreshStatus()

	return true
}

// CanMove checks if a move in the given direction would change the board
func (e *GameEngine) CanMove(direction Direction) bool {
	if e.state.Over {
		return false
	}
	return CanSlide(e.state.Board, direction)
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// HandleKey maps a key to its action and applies it. Unmapped keys are
// ignored.
func (e *GameEngine) HandleKey(key string) Action {
	action := ParseKey(key)

	switch action.Kind {
	case ActionMove:
		action.Moved = e.Move(action.Direction)
	case ActionRestart:
		e.Reset()
	case ActionExit:
		if e.onExit != nil {
			e.onExit()
		}
	}

	return action
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *Config {
	return e.config
}
