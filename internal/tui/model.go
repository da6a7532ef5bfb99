// Package tui is the terminal front end of the hotline game.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/service/session"
)

// Engine is the part of a session the terminal drives.
type Engine interface {
	View() session.View
	Submit(text string) error
	Quit() error
	Close() error
	NeedsStep() bool
	Step(ctx context.Context) error
	Tick()
}

// Factory starts a session for the named player.
type Factory func(player string) Engine

// Options configures the terminal front end.
type Options struct {
	// Player skips the name prompt when set.
	Player    string
	FrameRate int
	Logger    *zap.Logger
}

type frameMsg time.Time

type stepDoneMsg struct{ err error }

// Model is the bubbletea model for one game.
type Model struct {
	ctx     context.Context
	factory Factory
	engine  Engine
	logger  *zap.Logger
	frame   time.Duration

	nameInput textinput.Model
	input     textarea.Model
	spinner   spinner.Model
	styles    styles

	width  int
	height int

	stepping bool
	view     session.View
	err      error
}

// New builds the model. With opts.Player set the session starts at once.
func New(ctx context.Context, factory Factory, opts Options) Model {
	frameRate := opts.FrameRate
	if frameRate < 1 {
		frameRate = 30
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ni := textinput.New()
	ni.Placeholder = "your name"
	ni.Prompt = "> "
	ni.CharLimit = 64
	ni.Focus()

	ta := textarea.New()
	ta.Placeholder = "Type your reply. Enter sends, Alt+Enter adds a line."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		factory:   factory,
		logger:    logger,
		frame:     time.Second / time.Duration(frameRate),
		nameInput: ni,
		input:     ta,
		spinner:   sp,
		styles:    defaultStyles(),
		width:     80,
		height:    24,
	}
	if opts.Player != "" {
		m.start(opts.Player)
	}
	return m
}

func (m *Model) start(player string) {
	m.engine = m.factory(player)
	m.view = m.engine.View()
	m.nameInput.Blur()
	m.input.Focus()
	m.logger.Info("session started", zap.String("player", player))
}

// Err returns the failure that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, textarea.Blink, m.spinner.Tick, m.nextFrame())
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) step() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		return stepDoneMsg{err: engine.Step(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.input.SetWidth(max(m.width-4, 10))
		m.nameInput.Width = max(m.width-4, 10)
		return m, nil

	case frameMsg:
		if m.engine == nil {
			return m, m.nextFrame()
		}
		m.engine.Tick()
		m.view = m.engine.View()
		cmds := []tea.Cmd{m.nextFrame()}
		if !m.stepping && m.engine.NeedsStep() {
			m.stepping = true
			cmds = append(cmds, m.step())
		}
		return m, tea.Batch(cmds...)

	case stepDoneMsg:
		m.stepping = false
		if msg.err != nil && !errors.Is(msg.err, session.ErrStepInFlight) {
			m.err = msg.err
			m.logger.Error("session stopped", zap.Error(msg.err))
			if err := m.engine.Close(); err != nil {
				m.logger.Error("failed to close session", zap.Error(err))
			}
			return m, tea.Quit
		}
		m.view = m.engine.View()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.engine != nil {
			if err := m.engine.Close(); err != nil {
				m.logger.Error("failed to close session", zap.Error(err))
			}
		}
		return m, tea.Quit
	}

	if m.engine == nil {
		if msg.Type == tea.KeyEnter {
			m.start(strings.TrimSpace(m.nameInput.Value()))
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if m.view.IsGameOver {
		if err := m.engine.Quit(); err != nil {
			m.logger.Error("quit failed", zap.Error(err))
		}
		return m, tea.Quit
	}

	switch {
	case msg.Type == tea.KeyEsc:
		if err := m.engine.Quit(); err != nil {
			m.logger.Error("quit failed", zap.Error(err))
		}
		m.input.Blur()
		m.view = m.engine.View()
		return m, nil

	case msg.Type == tea.KeyEnter && !msg.Alt:
		if m.view.State != session.StateAwaitingPlayerInput {
			return m, nil
		}
		if err := m.engine.Submit(m.input.Value()); err != nil {
			m.logger.Debug("input rejected", zap.Error(err))
			return m, nil
		}
		m.input.Reset()
		m.view = m.engine.View()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.engine == nil {
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Run plays one game in the terminal and returns the failure that ended
// it, if any.
func Run(ctx context.Context, factory Factory, opts Options) error {
	p := tea.NewProgram(New(ctx, factory, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
