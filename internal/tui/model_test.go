package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/people-person/internal/model/call"
	"github.com/zhouzirui/people-person/internal/model/score"
	"github.com/zhouzirui/people-person/internal/service/session"
)

type fakeEngine struct {
	mu        sync.Mutex
	view      session.View
	needsStep bool
	stepErr   error
	steps     int
	ticks     int
	submitted []string
	quits     int
	closes    int
}

func (f *fakeEngine) View() session.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeEngine) Submit(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view.State != session.StateAwaitingPlayerInput {
		return session.ErrNotAwaitingInput
	}
	f.submitted = append(f.submitted, text)
	f.view.LastPlayerText = text
	f.view.State = session.StateAwaitingOracleReply
	f.view.Placeholder = session.PlaceholderThinking
	return nil
}

func (f *fakeEngine) Quit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quits++
	f.view.IsGameOver = true
	f.view.State = session.StateGameOver
	f.view.Leaderboard = []score.Entry{{Name: "Bob", Score: 7}, {Name: "Alice", Score: 2}}
	return nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeEngine) NeedsStep() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.needsStep
}

func (f *fakeEngine) Step(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps++
	return f.stepErr
}

func (f *fakeEngine) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
}

func newAwaitingEngine() *fakeEngine {
	return &fakeEngine{view: session.View{
		Player:             "Alice",
		State:              session.StateAwaitingPlayerInput,
		CurrentHealthScore: 5,
		LastCallerText:     "I don't know who else to call.",
	}}
}

func newTestModel(engine *fakeEngine) Model {
	return New(context.Background(), func(string) Engine { return engine }, Options{Player: "Alice", FrameRate: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok)
	return result, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestNamePromptStartsSession(t *testing.T) {
	engine := newAwaitingEngine()
	var got string
	m := New(context.Background(), func(name string) Engine {
		got = name
		return engine
	}, Options{})

	assert.Contains(t, m.View(), "Enter your gameplay name:")

	m = typeText(t, m, "Alice")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Alice", got)
	assert.Contains(t, m.View(), "Caller: I don't know who else to call.")
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(newAwaitingEngine())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 0, Height: -1})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestFrameTicksAndStartsOneStep(t *testing.T) {
	engine := newAwaitingEngine()
	engine.needsStep = true
	m := newTestModel(engine)

	m, _ = update(t, m, frameMsg(time.Now()))
	assert.True(t, m.stepping)
	assert.Equal(t, 1, engine.ticks)

	m, _ = update(t, m, frameMsg(time.Now()))
	assert.Equal(t, 2, engine.ticks)

	msg := m.step()()
	assert.Equal(t, 1, engine.steps)

	m, cmd := update(t, m, msg)
	assert.False(t, m.stepping)
	assert.False(t, isQuit(cmd))
}

func TestEnterSubmitsOnlyOnPlayersTurn(t *testing.T) {
	engine := newAwaitingEngine()
	m := newTestModel(engine)

	m = typeText(t, m, "I'm here.")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"I'm here."}, engine.submitted)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), session.PlaceholderThinking)

	m = typeText(t, m, "again")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, engine.submitted, 1)
	assert.Equal(t, "again", m.input.Value())
}

func TestAltEnterInsertsNewline(t *testing.T) {
	engine := newAwaitingEngine()
	m := newTestModel(engine)

	m = typeText(t, m, "first")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = typeText(t, m, "second")

	assert.Equal(t, "first\nsecond", m.input.Value())
	assert.Empty(t, engine.submitted)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"first\nsecond"}, engine.submitted)
}

func TestEscShowsLeaderboardThenAnyKeyExits(t *testing.T) {
	engine := newAwaitingEngine()
	m := newTestModel(engine)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, isQuit(cmd))
	assert.Equal(t, 1, engine.quits)

	view := m.View()
	assert.Contains(t, view, "Leaderboard")
	assert.Less(t, strings.Index(view, "Bob: 7"), strings.Index(view, "Alice: 2"))

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, 2, engine.quits)
}

func TestCtrlCClosesSession(t *testing.T) {
	engine := newAwaitingEngine()
	m := newTestModel(engine)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, 1, engine.closes)
	assert.Zero(t, engine.quits)
}

func TestStepFailureEndsProgram(t *testing.T) {
	engine := newAwaitingEngine()
	m := newTestModel(engine)
	boom := errors.New("oracle unreachable")

	m, cmd := update(t, m, stepDoneMsg{err: boom})
	assert.True(t, isQuit(cmd))
	assert.ErrorIs(t, m.Err(), boom)
	assert.Equal(t, 1, engine.closes)
}

func TestStepInFlightIsIgnored(t *testing.T) {
	m := newTestModel(newAwaitingEngine())

	m, cmd := update(t, m, stepDoneMsg{err: session.ErrStepInFlight})
	assert.False(t, isQuit(cmd))
	assert.NoError(t, m.Err())
}

func TestGameViewShowsHeaderAndNotifications(t *testing.T) {
	engine := newAwaitingEngine()
	engine.view.SessionScore = 2
	engine.view.BestScore = 4
	engine.view.ActiveNotifications = []call.Notification{{Text: "+3", Alpha: call.FullAlpha}}
	m := newTestModel(engine)

	view := m.View()
	assert.Contains(t, view, "Score: 2")
	assert.Contains(t, view, "Best: 4")
	assert.Contains(t, view, "Mental Health: 5/10")
	assert.Contains(t, view, "+3")
}

func TestGeneratingPlaceholderReplacesCaller(t *testing.T) {
	engine := newAwaitingEngine()
	engine.view.State = session.StateGeneratingCaller
	engine.view.Placeholder = session.PlaceholderGenerating
	m := newTestModel(engine)

	view := m.View()
	assert.Contains(t, view, session.PlaceholderGenerating)
	assert.NotContains(t, view, "Caller: ")
}

func TestSliderFill(t *testing.T) {
	assert.Zero(t, sliderFill(1, 90))
	assert.Equal(t, 90, sliderFill(10, 90))
	assert.Equal(t, 40, sliderFill(5, 90))
	assert.Equal(t, 90, sliderFill(42, 90))
	assert.Zero(t, sliderFill(5, 0))
}

func TestFadeColor(t *testing.T) {
	assert.Equal(t, "#ffff00", string(fadeColor(255)))
	assert.Equal(t, "#000000", string(fadeColor(-4)))
	assert.Equal(t, "#808000", string(fadeColor(128)))
}
