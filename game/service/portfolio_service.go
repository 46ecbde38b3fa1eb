package service

import (
	"context"
	"errors"
	"time"

	"github.com/keuhdall/termfolio/game/content"
	"github.com/keuhdall/termfolio/game/engine"
	"github.com/keuhdall/termfolio/game/shell"
)

var (
	ErrGameNotActive    = errors.New("no game is running")
	ErrGameActive       = errors.New("a game is running, exit it first")
	ErrInvalidDirection = errors.New("invalid direction")
)

// PortfolioService defines every operation a client can perform on a
// visitor's terminal
type PortfolioService interface {
	// Session Management
	CreateSession(ctx context.Context) (*Snapshot, error)
	GetSession(ctx context.Context, sessionID string) (*Snapshot, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Shell Operations
	Execute(ctx context.Context, sessionID, line string) (*Snapshot, error)
	Complete(ctx context.Context, sessionID, input string) (*CompletionResult, error)
	Navigate(ctx context.Context, sessionID, direction string) (*Snapshot, error)
	SetInput(ctx context.Context, sessionID, input string) (*Snapshot, error)

	// Game Operations
	GameState(ctx context.Context, sessionID string) (*GameResult, error)
	GameMove(ctx context.Context, sessionID, direction string) (*GameResult, error)
	GameKey(ctx context.Context, sessionID, key string) (*GameResult, error)
	GameRestart(ctx context.Context, sessionID string) (*GameResult, error)
	GameExit(ctx context.Context, sessionID string) (*Snapshot, error)

	// Content
	ListContent(ctx context.Context) ([]*content.Info, error)
	GetContent(ctx context.Context, name string) (string, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, build func(id string) (*Session, error)) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ContentManager serves the shell's text resources
type ContentManager interface {
	shell.ContentSource
	Load(name string) (string, error)
	List() ([]*content.Info, error)
}

// Notifier receives a snapshot whenever a session changes. It is called
// with the service lock held, so it must not block or call back into the
// service.
type Notifier func(snapshot *Snapshot)

// Session events announced through an EventNotifier
const (
	EventGameStarted = "game_started"
	EventGameExited  = "game_exited"
)

// EventNotifier receives session events such as a game starting. The same
// rules as Notifier apply.
type EventNotifier func(sessionID, event string, data interface{})

// Session is one visitor's terminal and, while it runs, their game
type Session struct {
	ID             string
	Shell          *shell.Shell
	Game           *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Version counts state changes; snapshots carry it so clients can
	// drop stale ones
	Version uint64
}
