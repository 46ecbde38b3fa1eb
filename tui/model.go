package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keuhdall/termfolio/game/engine"
	"github.com/keuhdall/termfolio/game/shell"
)

// flushMsg releases the oldest deferred shell task
type flushMsg struct{}

// Model is the Bubble Tea model for one local terminal session
type Model struct {
	shell *shell.Shell
	queue *shell.Queue
	game  *engine.GameEngine

	gameConfig  *engine.Config
	gameOptions []engine.Option
	latency     time.Duration
	clock       func() time.Time
	styles      Styles

	width  int
	height int
	err    error
}

// Option configures a Model
type Option func(*Model)

// WithLatency overrides how long command output takes to appear
func WithLatency(d time.Duration) Option {
	return func(m *Model) { m.latency = d }
}

// WithGameConfig sets the engine config used when 2048 starts
func WithGameConfig(cfg *engine.Config) Option {
	return func(m *Model) { m.gameConfig = cfg }
}

// WithEngineOptions passes options to every game engine the model creates
func WithEngineOptions(opts ...engine.Option) Option {
	return func(m *Model) { m.gameOptions = append(m.gameOptions, opts...) }
}

// WithClock sets the clock used by date, uptime and transcript timestamps
func WithClock(clock func() time.Time) Option {
	return func(m *Model) { m.clock = clock }
}

// WithStyles replaces DefaultStyles
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates a model whose shell reads its text from contents
func New(contents shell.ContentSource, opts ...Option) *Model {
	m := &Model{
		queue:      &shell.Queue{},
		gameConfig: engine.DefaultConfig(),
		latency:    shell.DefaultLatency,
		clock:      time.Now,
		styles:     DefaultStyles(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.shell = shell.New(
		shell.NewRegistry(contents, m.clock),
		shell.WithScheduler(m.queue),
		shell.WithLatency(m.latency),
		shell.WithClock(m.clock),
		shell.WithGameLauncher(m.launchGame),
	)
	return m
}

// Run starts the program on the alternate screen and blocks until the
// user quits or ctx is cancelled
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) launchGame() {
	opts := append([]engine.Option{engine.WithExitHandler(m.exitGame)}, m.gameOptions...)
	game, err := engine.NewEngine(m.gameConfig, opts...)
	if err != nil {
		m.err = err
		m.shell.ExitGame()
		return
	}
	m.game = game
}

func (m *Model) exitGame() {
	m.shell.ExitGame()
	m.game = nil
}

// Shell exposes the underlying shell
func (m *Model) Shell() *shell.Shell { return m.shell }

// Game returns the running game, or nil
func (m *Model) Game() *engine.GameEngine { return m.game }

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case flushMsg:
		m.queue.RunNext()
		return m, m.nextFlush()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.game != nil {
			m.updateGame(msg)
			return m, nil
		}
		return m, m.updateShell(msg)
	}
	return m, nil
}

// nextFlush schedules the oldest queued task, if any
func (m *Model) nextFlush() tea.Cmd {
	delay, ok := m.queue.Next()
	if !ok {
		return nil
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return flushMsg{} })
}

func (m *Model) updateGame(msg tea.KeyMsg) {
	key := msg.String()
	if key == "esc" {
		key = "q"
	}
	m.game.HandleKey(key)
}

func (m *Model) updateShell(msg tea.KeyMsg) tea.Cmd {
	// Keystrokes are dropped while output is pending.
	if m.shell.Busy() {
		return nil
	}

	switch msg.String() {
	case "enter":
		m.err = nil
		m.shell.Submit()
		return m.nextFlush()
	case "tab":
		m.shell.Complete(m.shell.Input())
	case "up":
		m.shell.Navigate(shell.HistoryUp)
	case "down":
		m.shell.Navigate(shell.HistoryDown)
	case "ctrl+l":
		m.shell.Execute(shell.CmdClear.String())
	case "ctrl+u":
		m.shell.SetInput("")
	case "backspace":
		input := []rune(m.shell.Input())
		if len(input) > 0 {
			m.shell.SetInput(string(input[:len(input)-1]))
		}
	default:
		switch msg.Type {
		case tea.KeySpace:
			m.shell.SetInput(m.shell.Input() + " ")
		case tea.KeyRunes:
			m.shell.SetInput(m.shell.Input() + string(msg.Runes))
		}
	}
	return nil
}

// View implements tea.Model
func (m *Model) View() string {
	if m.game != nil {
		return m.viewGame()
	}
	return m.viewShell()
}

func (m *Model) viewShell() string {
	var b strings.Builder
	prompt := m.styles.Prompt.Render(shell.Prompt)

	for _, entry := range m.shell.Transcript() {
		if entry.Input != "" {
			b.WriteString(prompt + " " + m.styles.Input.Render(entry.Input) + "\n")
		}
		if entry.Pending {
			b.WriteString(m.styles.Pending.Render("...") + "\n")
			continue
		}
		if entry.Output != "" {
			b.WriteString(m.styles.Output.Render(shell.RenderANSI(entry.Output)) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString(fmt.Sprintf("error: %v\n", m.err))
	}
	if !m.shell.Busy() {
		b.WriteString(prompt + " " + m.styles.Input.Render(m.shell.Input()) + m.styles.Cursor.Render("█"))
	}

	return m.tail(b.String())
}

// tail keeps the last screenful of lines
func (m *Model) tail(s string) string {
	if m.height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > m.height {
		lines = lines[len(lines)-m.height:]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewGame() string {
	state := m.game.GetState()

	rows := make([]string, 0, engine.Size)
	for _, row := range state.Board {
		cells := make([]string, 0, engine.Size)
		for _, v := range row {
			cells = append(cells, tileStyle(v, state.Target).Render(strings.TrimSpace(engine.FormatTile(v))))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	board := m.styles.Board.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	parts := []string{
		m.styles.Title.Render(engine.Title),
		m.styles.Score.Render(fmt.Sprintf("Score: %d", state.Score)),
		m.styles.Help.Render(engine.Help),
		board,
	}
	if banner := engine.Banner(state); banner != "" {
		parts = append(parts, m.styles.Banner.Render(banner))
	}
	parts = append(parts,
		m.styles.Help.Render(engine.Controls),
		m.styles.Help.Render(engine.Goal(state.Target)),
	)

	view := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}
