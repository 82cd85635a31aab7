package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/adventure-client/internal/config"
	"github.com/jwebster45206/adventure-client/pkg/actions"
	"github.com/jwebster45206/adventure-client/pkg/view"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

const (
	Title           = "TEXT ADVENTURE"
	PlaceHolderText = "Type a command, e.g. go north..."
)

type focusArea int

const (
	focusActions focusArea = iota
	focusInput
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config     *config.Config
	controller *viewstate.Controller
	logger     *slog.Logger

	roomViewport viewport.Model
	sideViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	// Latest derived state, refreshed from the controller after every request
	view     view.View
	actions  []actions.Action
	lastErr  error
	selected int
	focus    focusArea
	status   string

	// Requests in flight; the progress bar runs while this is non-zero
	pending      int
	progressTick int

	showQuitModal bool
}

// stateChangedMsg reports that a controller transition finished.
type stateChangedMsg struct {
	op  string
	err error
}

type progressTickMsg struct{}

var (
	roomPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	gameOverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	selectedActionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *config.Config, controller *viewstate.Controller, logger *slog.Logger) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Blur()

	roomVp := viewport.New(50, 20)
	roomVp.MouseWheelEnabled = true

	sideVp := viewport.New(20, 20)

	m := ConsoleUI{
		config:       cfg,
		controller:   controller,
		logger:       logger,
		textarea:     ta,
		roomViewport: roomVp,
		sideViewport: sideVp,
		focus:        focusActions,
	}
	m.refresh()
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.initialize()
}

// refresh copies the controller's current state into the model.
func (m *ConsoleUI) refresh() {
	m.view = m.controller.View()
	m.actions = m.view.Actions()
	m.lastErr = m.controller.LastError()
	if m.selected >= len(m.actions) {
		m.selected = len(m.actions) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m ConsoleUI) initialize() tea.Cmd {
	return m.run("start", func(ctx context.Context) error {
		return m.controller.Initialize(ctx)
	})
}

func (m ConsoleUI) submitCommand(command string) tea.Cmd {
	return m.run("command", func(ctx context.Context) error {
		return m.controller.SubmitCommand(ctx, command)
	})
}

func (m ConsoleUI) resetGame() tea.Cmd {
	return m.run("reset", func(ctx context.Context) error {
		return m.controller.Reset(ctx)
	})
}

// run wraps a controller call in a command. Calls are not queued: two
// commands in quick succession are both sent.
func (m ConsoleUI) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return stateChangedMsg{op: op, err: fn(context.Background())}
	}
}

// startOp counts a request as pending and starts the progress bar if it is
// the only one.
func (m *ConsoleUI) startOp(cmd tea.Cmd) tea.Cmd {
	m.pending++
	m.status = ""
	if m.pending == 1 {
		m.progressTick = 0
		return tea.Batch(cmd, progressTick())
	}
	return cmd
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.roomViewport, vpCmd = m.roomViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyTab:
			m.toggleFocus()
			m.writeContent()
			if m.focus == focusInput {
				return m, textarea.Blink
			}
			return m, nil

		case tea.KeyCtrlR:
			return m, m.startOp(m.resetGame())

		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(m.view.RoomDescription); err != nil {
				m.logger.Warn("Clipboard copy failed", "error", err)
				m.status = "Could not copy to clipboard"
			} else {
				m.status = "Room description copied"
			}
			m.writeContent()
			return m, nil

		case tea.KeyEnter:
			if m.focus == focusInput {
				input := actions.Normalize(m.textarea.Value())
				if input == "" {
					return m, nil
				}
				m.textarea.Reset()
				return m, m.startOp(m.submitCommand(input))
			}
			if len(m.actions) == 0 {
				return m, nil
			}
			return m, m.startOp(m.submitCommand(m.actions[m.selected].Command))

		case tea.KeyUp:
			if m.focus == focusActions {
				if m.selected > 0 {
					m.selected--
				}
				m.writeContent()
				return m, nil
			}

		case tea.KeyDown:
			if m.focus == focusActions {
				if m.selected < len(m.actions)-1 {
					m.selected++
				}
				m.writeContent()
				return m, nil
			}
		}

	case stateChangedMsg:
		if m.pending > 0 {
			m.pending--
		}
		switch {
		case errors.Is(msg.err, viewstate.ErrGameOver):
			m.status = "The game is over. Press Ctrl+R to play again."
		case errors.Is(msg.err, viewstate.ErrEmptyCommand):
		case msg.err != nil:
			m.logger.Debug("Console operation failed", "op", msg.op, "error", msg.err)
		}
		m.refresh()
		m.writeContent()
		return m, nil

	case progressTickMsg:
		if m.pending > 0 {
			m.progressTick++
			m.writeContent()
			return m, progressTick()
		}
		return m, nil
	}

	if m.focus == focusInput {
		m.textarea, tiCmd = m.textarea.Update(msg)
	}
	m.roomViewport, vpCmd = m.roomViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *ConsoleUI) toggleFocus() {
	if m.focus == focusActions {
		m.focus = focusInput
		m.textarea.Focus()
		return
	}
	m.focus = focusActions
	m.textarea.Blur()
}

func (m *ConsoleUI) resize() {
	roomWidth := int(float64(m.width)*0.65) - 4
	sideWidth := m.width - roomWidth - 6

	m.roomViewport.Width = roomWidth - 2
	m.roomViewport.Height = m.height - 6
	m.sideViewport.Width = sideWidth - 2
	m.sideViewport.Height = m.height - 3
	m.textarea.SetWidth(roomWidth - 4)
}

// writeContent re-renders both panels from the model's copy of the view.
func (m *ConsoleUI) writeContent() {
	width := m.roomViewport.Width - 6 // Account for left(3) + right(3) padding
	if width < 10 {
		width = 10
	}

	room := writeRoom(m.view, width)
	if m.pending > 0 {
		room += "\n\n" + m.renderProgressBar()
	}
	m.roomViewport.SetContent(room)
	m.sideViewport.SetContent(writeSidebar(m.view, m.actions, m.selected, m.focus, m.lastErr, m.status))
}

func writeRoom(v view.View, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(Title) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if v.RoomDescription == "" {
		content.WriteString(promptStyle.Render("Waiting for the game to start..."))
	} else {
		content.WriteString(roomStyle.Render(wordwrap.String(v.RoomDescription, width)))
	}
	content.WriteString("\n\n")

	if len(v.Items) > 0 {
		content.WriteString(headingStyle.Render("On the ground:") + "\n")
		for _, item := range v.Items {
			content.WriteString(wordwrap.String("• "+item, width) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(headingStyle.Render("Inventory:") + "\n")
	if len(v.Inventory) == 0 {
		content.WriteString("Your inventory is empty.\n")
	} else {
		for _, item := range v.Inventory {
			content.WriteString(wordwrap.String("• "+item, width) + "\n")
		}
	}
	return content.String()
}

func writeSidebar(v view.View, offered []actions.Action, selected int, focus focusArea, lastErr error, status string) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("STATUS") + "\n\n")
	content.WriteString(fmt.Sprintf("Health: %s\n", v.HealthText))
	if v.ShowGameOver {
		content.WriteString(gameOverStyle.Render("Game Over!") + "\n")
	}
	content.WriteString("\n")

	content.WriteString(titleStyle.Render("ACTIONS") + "\n")
	for i, a := range offered {
		if i == 0 || groupOf(offered[i-1].Kind) != groupOf(a.Kind) {
			content.WriteString("\n" + headingStyle.Render(groupOf(a.Kind)) + "\n")
		}
		if i == selected && focus == focusActions {
			content.WriteString(selectedActionStyle.Render("▶ "+a.Label) + "\n")
		} else {
			content.WriteString(actionStyle.Render("  "+a.Label) + "\n")
		}
	}
	content.WriteString("\n")

	if lastErr != nil {
		content.WriteString(errorStyle.Render("Error: "+lastErr.Error()) + "\n\n")
	}
	if status != "" {
		content.WriteString(statusStyle.Render(status) + "\n\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• ↑/↓: Choose action\n")
	content.WriteString("• Enter: Run\n")
	content.WriteString("• Tab: Type a command\n")
	content.WriteString("• Ctrl+R: Reset game\n")
	content.WriteString("• Ctrl+Y: Copy room text\n")
	content.WriteString("• Ctrl+C: Quit\n")
	return content.String()
}

func groupOf(k actions.Kind) string {
	switch k {
	case actions.KindMove:
		return "Move"
	case actions.KindTake:
		return "Take"
	default:
		return "Actions"
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case stateChangedMsg:
		// A request finished behind the modal; keep the state current.
		if m.pending > 0 {
			m.pending--
		}
		m.refresh()
		m.writeContent()

	case progressTickMsg:
		// Keep the tick chain alive so the bar resumes when the modal closes.
		if m.pending > 0 {
			m.progressTick++
			return m, progressTick()
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.focus == focusInput {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	roomWidth := int(float64(m.width)*0.65) - 4
	sideWidth := m.width - roomWidth - 6

	roomPanel := roomPanelStyle.Width(roomWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.roomViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", roomWidth-4)),
			m.textarea.View(),
		),
	)

	sidePanel := sidePanelStyle.Width(sideWidth).Height(m.height - 2).Render(
		m.sideViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, roomPanel, sidePanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.roomViewport.Width - 6
	if usable > 60 {
		usable = 60
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
