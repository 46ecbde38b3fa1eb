package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keuhdall/termfolio/game/engine"
)

type mapContent map[string]string

func (m mapContent) Get(name string) string { return m[name] }

var testContent = mapContent{
	"welcome": "Welcome to my terminal",
	"help":    "Available commands: ...",
	"about":   "About me",
	"skills":  "Go, TypeScript",
	"contact": `Mail: <a href="mailto:me@example.com">me@example.com</a>`,
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	now := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	return New(testContent,
		WithClock(func() time.Time { return now }),
		WithEngineOptions(engine.WithRand(rand.New(rand.NewPCG(1, 2)))),
	)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// execute types a line, submits it and releases the deferred output
func execute(t *testing.T, m *Model, line string) {
	t.Helper()
	cmd := send(m, runes(line), key(tea.KeyEnter))
	if m.Shell().Busy() {
		require.NotNil(t, cmd)
		send(m, flushMsg{})
	}
	require.False(t, m.Shell().Busy())
}

func TestNew_ShowsWelcome(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Welcome to my terminal")
	assert.Contains(t, view, "keuhdall@home:~$")
	assert.Nil(t, m.Init())
}

func TestUpdate_ExecuteDefersOutput(t *testing.T) {
	m := newTestModel(t)

	cmd := send(m, runes("about"), key(tea.KeyEnter))
	require.NotNil(t, cmd, "expected a tick for the pending output")
	assert.True(t, m.Shell().Busy())
	assert.NotContains(t, m.View(), "About me")

	cmd = send(m, flushMsg{})
	assert.Nil(t, cmd)
	assert.False(t, m.Shell().Busy())
	assert.Contains(t, m.View(), "About me")
}

func TestUpdate_DropsKeysWhileBusy(t *testing.T) {
	m := newTestModel(t)

	send(m, runes("help"), key(tea.KeyEnter))
	require.True(t, m.Shell().Busy())

	send(m, runes("x"), key(tea.KeyTab), key(tea.KeyUp))
	assert.Equal(t, "", m.Shell().Input())
	assert.Equal(t, -1, m.Shell().Cursor())
}

func TestUpdate_Editing(t *testing.T) {
	m := newTestModel(t)

	send(m, runes("echo"), key(tea.KeySpace), runes("hi!"))
	assert.Equal(t, "echo hi!", m.Shell().Input())

	send(m, key(tea.KeyBackspace))
	assert.Equal(t, "echo hi", m.Shell().Input())

	send(m, key(tea.KeyCtrlU))
	assert.Equal(t, "", m.Shell().Input())

	send(m, key(tea.KeyBackspace))
	assert.Equal(t, "", m.Shell().Input())
}

func TestUpdate_TabCompletes(t *testing.T) {
	m := newTestModel(t)

	send(m, runes("ab"), key(tea.KeyTab))
	assert.Equal(t, "about", m.Shell().Input())
}

func TestUpdate_HistoryNavigation(t *testing.T) {
	m := newTestModel(t)
	execute(t, m, "about")
	execute(t, m, "skills")

	send(m, key(tea.KeyUp))
	assert.Equal(t, "skills", m.Shell().Input())

	send(m, key(tea.KeyUp))
	assert.Equal(t, "about", m.Shell().Input())

	send(m, key(tea.KeyDown))
	assert.Equal(t, "skills", m.Shell().Input())

	send(m, key(tea.KeyDown))
	assert.Equal(t, "", m.Shell().Input())
}

func TestUpdate_CtrlLClears(t *testing.T) {
	m := newTestModel(t)
	execute(t, m, "about")

	cmd := send(m, key(tea.KeyCtrlL))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Shell().Transcript())
	assert.NotContains(t, m.View(), "About me")
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := newTestModel(t)

	cmd := send(m, key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_LinksAreShown(t *testing.T) {
	m := newTestModel(t)
	execute(t, m, "contact")

	view := m.View()
	assert.Contains(t, view, "me@example.com")
	assert.NotContains(t, view, "<a href=")
}

func TestView_TailsToHeight(t *testing.T) {
	m := newTestModel(t)
	execute(t, m, "about")
	execute(t, m, "skills")

	send(m, tea.WindowSizeMsg{Width: 80, Height: 2})

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Go, TypeScript")
}

func TestGame_Lifecycle(t *testing.T) {
	m := newTestModel(t)
	execute(t, m, "2048")

	require.NotNil(t, m.Game())
	assert.True(t, m.Shell().GameActive())

	view := m.View()
	assert.Contains(t, view, engine.Title)
	assert.Contains(t, view, "Score: 0")
	assert.Contains(t, view, engine.Goal(2048))
	assert.Equal(t, 2, m.Game().GetState().Board.TileCount())

	// Shell keys go to the game while it runs.
	send(m, runes("x"))
	assert.Equal(t, "", m.Shell().Input())

	send(m, runes("r"))
	require.NotNil(t, m.Game())
	assert.Equal(t, 2, m.Game().GetState().Board.TileCount())

	send(m, runes("q"))
	assert.Nil(t, m.Game())
	assert.False(t, m.Shell().GameActive())
	assert.Contains(t, m.View(), "keuhdall@home:~$")
}

func TestGame_EscExits(t *testing.T) {
	m := newTestModel(t)
	execute(t, m, "2048")
	require.NotNil(t, m.Game())

	send(m, key(tea.KeyEsc))
	assert.Nil(t, m.Game())
}

func TestGame_InvalidConfigReportsError(t *testing.T) {
	m := New(testContent, WithGameConfig(&engine.Config{}))
	execute(t, m, "2048")

	assert.Nil(t, m.Game())
	assert.False(t, m.Shell().GameActive())
	assert.Contains(t, m.View(), "error:")
}
