package service

import (
	"time"

	"github.com/keuhdall/termfolio/game/engine"
	"github.com/keuhdall/termfolio/game/shell"
)

// SessionInfo provides summary information about a session
type SessionInfo struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	Entries        int       `json:"entries"`
	Commands       int       `json:"commands"`
	Busy           bool      `json:"busy"`
	GameActive     bool      `json:"game_active"`
}

// EntryView is a transcript entry with its output rendered for browsers
type EntryView struct {
	shell.Entry
	OutputHTML string `json:"output_html"`
}

// Snapshot is the full client-visible state of a session
type Snapshot struct {
	SessionID  string            `json:"session_id"`
	Version    uint64            `json:"version"`
	Prompt     string            `json:"prompt"`
	Transcript []EntryView       `json:"transcript"`
	Input      string            `json:"input"`
	Busy       bool              `json:"busy"`
	Cursor     int               `json:"cursor"`
	History    []string          `json:"history"`
	GameActive bool              `json:"game_active"`
	Game       *engine.GameState `json:"game,omitempty"`
	Banner     string            `json:"banner,omitempty"`
}

// CompletionResult contains a tab completion and the resulting state
type CompletionResult struct {
	shell.Completion
	Snapshot *Snapshot `json:"snapshot"`
}

// GameResult contains the outcome of a game operation
type GameResult struct {
	Action        engine.Action      `json:"action"`
	State         *engine.GameState  `json:"state"`
	GameActive    bool               `json:"game_active"`
	Banner        string             `json:"banner,omitempty"`
	Board         string             `json:"board"`
	PossibleMoves []engine.Direction `json:"possible_moves"`
}
