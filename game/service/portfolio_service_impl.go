package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/keuhdall/termfolio/game/content"
	"github.com/keuhdall/termfolio/game/engine"
	"github.com/keuhdall/termfolio/game/shell"
)

// portfolioServiceImpl implements the PortfolioService interface. One
// mutex serialises every operation and every deferred shell task, so each
// session behaves as if it ran on a single event loop.
type portfolioServiceImpl struct {
	sessions   SessionManager
	content    ContentManager
	registry   *shell.Registry
	scheduler  shell.Scheduler
	latency    time.Duration
	gameConfig *engine.Config
	notify     Notifier
	events     EventNotifier
	mu         sync.Mutex
}

// Option configures the service
type Option func(*portfolioServiceImpl)

// WithNotifier registers the receiver of session snapshots
func WithNotifier(n Notifier) Option {
	return func(s *portfolioServiceImpl) { s.notify = n }
}

// WithEventNotifier registers the receiver of session events
func WithEventNotifier(n EventNotifier) Option {
	return func(s *portfolioServiceImpl) { s.events = n }
}

// WithLatency sets the simulated command latency
func WithLatency(d time.Duration) Option {
	return func(s *portfolioServiceImpl) { s.latency = d }
}

// WithScheduler overrides where deferred shell output runs
func WithScheduler(sched shell.Scheduler) Option {
	return func(s *portfolioServiceImpl) { s.scheduler = sched }
}

// WithGameConfig sets the rules for games started by the 2048 command
func WithGameConfig(cfg *engine.Config) Option {
	return func(s *portfolioServiceImpl) { s.gameConfig = cfg }
}

// NewPortfolioService creates a new service instance
func NewPortfolioService(sessions SessionManager, contents ContentManager, opts ...Option) PortfolioService {
	s := &portfolioServiceImpl{
		sessions:   sessions,
		content:    contents,
		registry:   shell.NewRegistry(contents, time.Now),
		scheduler:  shell.TimerScheduler,
		latency:    shell.DefaultLatency,
		gameConfig: engine.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new visitor session
func (s *portfolioServiceImpl) CreateSession(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Create("", s.buildSession)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[Service] Created session %s", sess.ID)
	return snapshotOf(sess), nil
}

func (s *portfolioServiceImpl) buildSession(id string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:             id,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	sess.Shell = shell.New(s.registry,
		shell.WithScheduler(s.sessionScheduler(sess)),
		shell.WithLatency(s.latency),
		shell.WithGameLauncher(func() { s.launchGame(sess) }),
	)
	return sess, nil
}

// sessionScheduler runs deferred shell output under the service lock and
// publishes the session before releasing it.
func (s *portfolioServiceImpl) sessionScheduler(sess *Session) shell.Scheduler {
	return shell.SchedulerFunc(func(delay time.Duration, task func()) {
		s.scheduler.AfterFunc(delay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			task()
			sess.Version++
			s.publish(snapshotOf(sess))
		})
	})
}

// launchGame is called with the service lock held
func (s *portfolioServiceImpl) launchGame(sess *Session) {
	var game *engine.GameEngine
	game, err := engine.NewEngine(s.gameConfig, engine.WithExitHandler(func() {
		final := game.GetState()
		sess.Shell.ExitGame()
		sess.Game = nil
		log.Printf("[Service] Session %s left the game (score=%d)", sess.ID, final.Score)
		s.emit(sess.ID, EventGameExited, final)
	}))
	if err != nil {
		log.Printf("[Service] Failed to start game for session %s: %v", sess.ID, err)
		sess.Shell.ExitGame()
		return
	}
	sess.Game = game
	log.Printf("[Service] Session %s started a game", sess.ID)
	s.emit(sess.ID, EventGameStarted, game.GetState())
}

// publish and emit are called with the service lock held, which keeps
// notifications in the order the changes happened
func (s *portfolioServiceImpl) publish(snap *Snapshot) {
	if s.notify != nil && snap != nil {
		s.notify(snap)
	}
}

func (s *portfolioServiceImpl) emit(sessionID, event string, data interface{}) {
	if s.events != nil {
		s.events(sessionID, event, data)
	}
}

// GetSession retrieves the current state of a session
func (s *portfolioServiceImpl) GetSession(ctx context.Context, sessionID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return snapshotOf(sess), nil
}

// ListSessions returns all active sessions
func (s *portfolioServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			Entries:        len(sess.Shell.Transcript()),
			Commands:       len(sess.Shell.History()),
			Busy:           sess.Shell.Busy(),
			GameActive:     sess.Shell.GameActive(),
		})
	}
	return result, nil
}

// DeleteSession removes a session
func (s *portfolioServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Printf("[Service] Deleted session %s", sessionID)
	return nil
}

// Execute submits a command line to the session's shell
func (s *portfolioServiceImpl) Execute(ctx context.Context, sessionID, line string) (*Snapshot, error) {
	return s.mutate(sessionID, func(sess *Session) error {
		if sess.Shell.GameActive() {
			return ErrGameActive
		}
		if sess.Shell.Busy() {
			return shell.ErrBusy
		}
		sess.Shell.SetInput(line)
		return sess.Shell.Submit()
	})
}

// Complete performs tab completion on input
func (s *portfolioServiceImpl) Complete(ctx context.Context, sessionID, input string) (*CompletionResult, error) {
	var completion shell.Completion
	snap, err := s.mutate(sessionID, func(sess *Session) error {
		if sess.Shell.GameActive() {
			return ErrGameActive
		}
		sess.Shell.SetInput(input)
		completion = sess.Shell.Complete(input)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CompletionResult{Completion: completion, Snapshot: snap}, nil
}

// Navigate moves through the command history ("up" or "down")
func (s *portfolioServiceImpl) Navigate(ctx context.Context, sessionID, direction string) (*Snapshot, error) {
	dir := shell.Direction(direction)
	if dir != shell.HistoryUp && dir != shell.HistoryDown {
		return nil, fmt.Errorf("%w: %q (use up or down)", ErrInvalidDirection, direction)
	}
	return s.mutate(sessionID, func(sess *Session) error {
		sess.Shell.Navigate(dir)
		return nil
	})
}

// SetInput replaces the contents of the input field
func (s *portfolioServiceImpl) SetInput(ctx context.Context, sessionID, input string) (*Snapshot, error) {
	return s.mutate(sessionID, func(sess *Session) error {
		if sess.Shell.Busy() {
			return shell.ErrBusy
		}
		sess.Shell.SetInput(input)
		return nil
	})
}

// GameState returns the running game
func (s *portfolioServiceImpl) GameState(ctx context.Context, sessionID string) (*GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Game == nil {
		return nil, ErrGameNotActive
	}
	return gameResultOf(sess, sess.Game, engine.Action{Kind: engine.ActionNone}), nil
}

// GameMove slides the board in a direction
func (s *portfolioServiceImpl) GameMove(ctx context.Context, sessionID, direction string) (*GameResult, error) {
	dir, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q (use up, down, left or right)", ErrInvalidDirection, direction)
	}
	return s.gameOp(sessionID, func(game *engine.GameEngine) engine.Action {
		return engine.Action{Kind: engine.ActionMove, Direction: dir, Moved: game.Move(dir)}
	})
}

// GameKey applies a key press to the game. Unmapped keys are ignored.
func (s *portfolioServiceImpl) GameKey(ctx context.Context, sessionID, key string) (*GameResult, error) {
	return s.gameOp(sessionID, func(game *engine.GameEngine) engine.Action {
		return game.HandleKey(key)
	})
}

// GameRestart starts a fresh board
func (s *portfolioServiceImpl) GameRestart(ctx context.Context, sessionID string) (*GameResult, error) {
	return s.gameOp(sessionID, func(game *engine.GameEngine) engine.Action {
		game.Reset()
		return engine.Action{Kind: engine.ActionRestart}
	})
}

// GameExit leaves the game and returns to the shell
func (s *portfolioServiceImpl) GameExit(ctx context.Context, sessionID string) (*Snapshot, error) {
	return s.mutate(sessionID, func(sess *Session) error {
		if sess.Game == nil {
			return ErrGameNotActive
		}
		sess.Game.HandleKey("q")
		return nil
	})
}

// ListContent returns metadata for every content resource
func (s *portfolioServiceImpl) ListContent(ctx context.Context) ([]*content.Info, error) {
	return s.content.List()
}

// GetContent returns the text of a content resource
func (s *portfolioServiceImpl) GetContent(ctx context.Context, name string) (string, error) {
	return s.content.Load(name)
}

// session looks a session up and marks it accessed. Callers hold s.mu.
func (s *portfolioServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// mutate applies fn under the lock and publishes the resulting snapshot
func (s *portfolioServiceImpl) mutate(sessionID string, fn func(*Session) error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.Version++
	snap := snapshotOf(sess)
	s.publish(snap)
	return snap, nil
}

func (s *portfolioServiceImpl) gameOp(sessionID string, fn func(*engine.GameEngine) engine.Action) (*GameResult, error) {
	var result *GameResult
	_, err := s.mutate(sessionID, func(sess *Session) error {
		game := sess.Game
		if game == nil {
			return ErrGameNotActive
		}
		action := fn(game)
		result = gameResultOf(sess, game, action)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func gameResultOf(sess *Session, game *engine.GameEngine, action engine.Action) *GameResult {
	state := game.GetState()
	return &GameResult{
		Action:        action,
		State:         state,
		GameActive:    sess.Game != nil,
		Banner:        engine.Banner(state),
		Board:         engine.Render(state),
		PossibleMoves: game.GetPossibleMoves(),
	}
}

func snapshotOf(sess *Session) *Snapshot {
	transcript := sess.Shell.Transcript()
	views := make([]EntryView, len(transcript))
	for i, entry := range transcript {
		views[i] = EntryView{Entry: entry, OutputHTML: shell.RenderHTML(entry.Output)}
	}

	snap := &Snapshot{
		SessionID:  sess.ID,
		Version:    sess.Version,
		Prompt:     shell.Prompt,
		Transcript: views,
		Input:      sess.Shell.Input(),
		Busy:       sess.Shell.Busy(),
		Cursor:     sess.Shell.Cursor(),
		History:    sess.Shell.History(),
		GameActive: sess.Shell.GameActive(),
	}
	if sess.Game != nil {
		snap.Game = sess.Game.GetState()
		snap.Banner = engine.Banner(snap.Game)
	}
	return snap
}
