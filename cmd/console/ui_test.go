package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-client/internal/config"
	"github.com/jwebster45206/adventure-client/internal/gameapi"
	"github.com/jwebster45206/adventure-client/pkg/snapshot"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func caveSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		RoomDescription: "A dark cave",
		Items:           []string{"torch"},
		Inventory:       []string{},
		Health:          100,
		Directions:      snapshot.Exits{snapshot.NewExit("north", "room2"), snapshot.NewExit("south", "")},
	}
}

func newTestUI(t *testing.T, start snapshot.Snapshot) (ConsoleUI, *gameapi.MockGameService) {
	t.Helper()
	mock := gameapi.NewMockGameService()
	mock.StartFunc = func(context.Context) (snapshot.Snapshot, error) { return start, nil }
	controller := viewstate.New(mock, viewstate.WithLogger(testLogger()))

	m := NewConsoleUI(&config.Config{}, controller, testLogger())
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, run(t, m.Init()))
	return m, mock
}

func update(t *testing.T, m ConsoleUI, msg tea.Msg) ConsoleUI {
	t.Helper()
	next, _ := m.Update(msg)
	ui, ok := next.(ConsoleUI)
	require.True(t, ok)
	return ui
}

// run executes a command and returns its state change, skipping ticks
// and other UI housekeeping messages.
func run(t *testing.T, cmd tea.Cmd) stateChangedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	for _, msg := range collect(cmd) {
		if sc, ok := msg.(stateChangedMsg); ok {
			return sc
		}
	}
	t.Fatal("Expected a stateChangedMsg")
	return stateChangedMsg{}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestConsoleUI_InitLoadsStart(t *testing.T) {
	m, mock := newTestUI(t, caveSnapshot())

	assert.Equal(t, 1, mock.StartCalls)
	assert.Equal(t, "A dark cave", m.view.RoomDescription)

	var commands []string
	for _, a := range m.actions {
		commands = append(commands, a.Command)
	}
	assert.Equal(t, []string{"go north", "take torch", "fight", "look", "inventory", "quit"}, commands)
	assert.Equal(t, 0, m.pending)
}

func TestConsoleUI_EnterRunsSelectedAction(t *testing.T) {
	m, mock := newTestUI(t, caveSnapshot())
	mock.CommandFunc = func(_ context.Context, command string) (snapshot.Snapshot, error) {
		s := caveSnapshot()
		s.Items = []string{}
		s.Inventory = []string{"torch"}
		return s, nil
	}

	m = update(t, m, key(tea.KeyDown))
	assert.Equal(t, 1, m.selected)

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(ConsoleUI)
	assert.Equal(t, 1, m.pending)

	m = update(t, m, run(t, cmd))
	assert.Equal(t, 0, m.pending)
	assert.Equal(t, []string{"take torch"}, mock.CommandCalls)
	assert.Equal(t, []string{"torch"}, m.view.Inventory)
	assert.Len(t, m.view.InventoryActions, 2)
}

func TestConsoleUI_SelectionStaysInRange(t *testing.T) {
	m, _ := newTestUI(t, caveSnapshot())

	m = update(t, m, key(tea.KeyUp))
	assert.Equal(t, 0, m.selected)

	for i := 0; i < 20; i++ {
		m = update(t, m, key(tea.KeyDown))
	}
	assert.Equal(t, len(m.actions)-1, m.selected)
}

func TestConsoleUI_TypedCommand(t *testing.T) {
	m, mock := newTestUI(t, caveSnapshot())

	m = update(t, m, key(tea.KeyTab))
	require.Equal(t, focusInput, m.focus)

	m.textarea.SetValue("  use lamp ")
	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(ConsoleUI)
	assert.Empty(t, m.textarea.Value())

	m = update(t, m, run(t, cmd))
	assert.Equal(t, []string{"use lamp"}, mock.CommandCalls)
}

func TestConsoleUI_EmptyTypedCommandIsIgnored(t *testing.T) {
	m, mock := newTestUI(t, caveSnapshot())
	m = update(t, m, key(tea.KeyTab))

	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Empty(t, mock.CommandCalls)
}

func TestConsoleUI_GameOverSuppressesCommands(t *testing.T) {
	over := caveSnapshot()
	over.GameOver = true
	m, mock := newTestUI(t, over)

	assert.Contains(t, writeSidebar(m.view, m.actions, m.selected, m.focus, m.lastErr, m.status), "Game Over!")

	_, cmd := m.Update(key(tea.KeyEnter))
	msg := run(t, cmd)
	assert.ErrorIs(t, msg.err, viewstate.ErrGameOver)

	m = update(t, m, msg)
	assert.Empty(t, mock.CommandCalls)
	assert.Contains(t, m.status, "game is over")
}

func TestConsoleUI_ResetAfterGameOver(t *testing.T) {
	over := caveSnapshot()
	over.GameOver = true
	m, mock := newTestUI(t, over)
	mock.ResetFunc = func(context.Context) (snapshot.Snapshot, error) { return caveSnapshot(), nil }

	_, cmd := m.Update(key(tea.KeyCtrlR))
	m = update(t, m, run(t, cmd))

	assert.Equal(t, 1, mock.ResetCalls)
	assert.False(t, m.view.ShowGameOver)
}

func TestConsoleUI_ErrorIsShown(t *testing.T) {
	m, mock := newTestUI(t, caveSnapshot())
	mock.CommandFunc = func(context.Context, string) (snapshot.Snapshot, error) {
		return snapshot.Snapshot{}, errors.New("command returned status 500")
	}

	_, cmd := m.Update(key(tea.KeyEnter))
	m = update(t, m, run(t, cmd))

	assert.Equal(t, "A dark cave", m.view.RoomDescription)
	side := writeSidebar(m.view, m.actions, m.selected, m.focus, m.lastErr, m.status)
	assert.Contains(t, side, "command returned status 500")
}

func TestConsoleUI_QuitModal(t *testing.T) {
	m, _ := newTestUI(t, caveSnapshot())

	m = update(t, m, key(tea.KeyEsc))
	require.True(t, m.showQuitModal)
	assert.Contains(t, m.View(), "Quit Game?")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, m.showQuitModal)
}

func TestConsoleUI_ProgressTicksContinueBehindQuitModal(t *testing.T) {
	m, _ := newTestUI(t, caveSnapshot())

	// Start a request but do not deliver its result.
	next, _ := m.Update(key(tea.KeyEnter))
	m = next.(ConsoleUI)
	require.Equal(t, 1, m.pending)

	m = update(t, m, key(tea.KeyEsc))
	require.True(t, m.showQuitModal)

	next, cmd := m.Update(progressTickMsg{})
	m = next.(ConsoleUI)
	assert.NotNil(t, cmd, "tick chain must continue while a request is pending")
	assert.Equal(t, 1, m.progressTick)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.False(t, m.showQuitModal)

	next, cmd = m.Update(progressTickMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, next.(ConsoleUI).progressTick)
}

func TestConsoleUI_QuitModalStopsTicksWhenIdle(t *testing.T) {
	m, _ := newTestUI(t, caveSnapshot())
	m = update(t, m, key(tea.KeyEsc))

	_, cmd := m.Update(progressTickMsg{})
	assert.Nil(t, cmd)
}

func TestWriteRoom(t *testing.T) {
	m, _ := newTestUI(t, caveSnapshot())

	room := writeRoom(m.view, 40)
	assert.Contains(t, room, "A dark cave")
	assert.Contains(t, room, "torch")
	assert.Contains(t, room, "Your inventory is empty.")

	side := writeSidebar(m.view, m.actions, 0, focusActions, nil, "")
	assert.Contains(t, side, "Health: 100")
	assert.Contains(t, side, "Go north")
	assert.NotContains(t, side, "Go south")
	assert.NotContains(t, side, "Game Over!")
	assert.Equal(t, 1, strings.Count(side, "Take torch"))
}
