// Package session runs hotline calls: it generates callers, relays the
// counselor's input, has every turn assessed and keeps the session score.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/analysis/health"
	"github.com/zhouzirui/people-person/internal/model/call"
	"github.com/zhouzirui/people-person/internal/model/score"
)

var (
	ErrNotAwaitingInput = errors.New("caller is not waiting for the counselor")
	ErrStepInFlight     = errors.New("an oracle step is already running")
	ErrGameOver         = errors.New("game is over")
)

// LeaderboardSize is how many players the leaderboard shows.
const LeaderboardSize = 10

// State is the position of the engine in the call lifecycle.
type State string

const (
	StateGeneratingCaller    State = "generating_caller"
	StateAssessingOpening    State = "assessing_opening"
	StateAwaitingPlayerInput State = "awaiting_player_input"
	StateAwaitingOracleReply State = "awaiting_oracle_reply"
	StateGameOver            State = "game_over"
)

// Oracle supplies callers, their lines and assessments. Every method blocks
// until the model answers.
type Oracle interface {
	GeneratePersonality(ctx context.Context) (string, error)
	GenerateOpeningLine(ctx context.Context, personality string) (string, error)
	GenerateNextLine(ctx context.Context, personality string, history call.History, latest string) (string, error)
	AssessHealth(ctx context.Context, history call.History) (int, error)
}

// Options configures an Engine.
type Options struct {
	Player string
	Logger *zap.Logger
}

// Engine owns the session: the current call, health scores, session score
// and notifications. It is safe for concurrent use; oracle requests run
// without holding the lock so the view can be polled meanwhile.
type Engine struct {
	oracle Oracle
	scores score.Store
	player string
	logger *zap.Logger

	mu            sync.Mutex
	state         State
	current       *call.Call
	prevHealth    int
	curHealth     int
	session       int
	storedBest    int
	lastCaller    string
	lastPlayer    string
	notes         call.Queue
	awaitingLine  bool
	busy          bool
	err           error
	flushed       bool
	leaderboard   []score.Entry
	completed     int
	exited        chan struct{}
	closeExitOnce sync.Once
}

// NewEngine prepares a session for player. The first Step generates a caller.
func NewEngine(oracle Oracle, scores score.Store, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		oracle:     oracle,
		scores:     scores,
		player:     opts.Player,
		logger:     logger,
		state:      StateGeneratingCaller,
		prevHealth: health.InitialPrevious,
		curHealth:  health.InitialPrevious,
		storedBest: scores.Best(opts.Player),
		exited:     make(chan struct{}),
	}
}

// NeedsStep reports whether the current state is waiting on the oracle and
// no step is running.
func (e *Engine) NeedsStep() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.busy && e.err == nil && oracleState(e.state)
}

// Step performs the oracle work of the current state and advances the
// state machine. It returns nil without doing anything while the engine
// waits for the counselor or after the game is over. Oracle failures are
// returned and stop the engine.
func (e *Engine) Step(ctx context.Context) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrStepInFlight
	}
	if e.err != nil {
		err := e.err
		e.mu.Unlock()
		return err
	}
	state := e.state
	if !oracleState(state) {
		e.mu.Unlock()
		return nil
	}
	e.busy = true
	e.mu.Unlock()

	var err error
	switch state {
	case StateGeneratingCaller:
		err = e.generateCaller(ctx)
	case StateAssessingOpening:
		err = e.assessOpening(ctx)
	case StateAwaitingOracleReply:
		err = e.answerCounselor(ctx)
	}

	e.mu.Lock()
	e.busy = false
	if err != nil {
		e.err = err
		e.logger.Error("oracle step failed", zap.String("state", string(state)), zap.Error(err))
	}
	e.mu.Unlock()
	return err
}

func (e *Engine) generateCaller(ctx context.Context) error {
	personality, err := e.oracle.GeneratePersonality(ctx)
	if err != nil {
		return fmt.Errorf("generate caller: %w", err)
	}

	e.mu.Lock()
	if e.state != StateGeneratingCaller {
		e.mu.Unlock()
		return nil
	}
	e.lastCaller = ""
	e.lastPlayer = ""
	e.mu.Unlock()

	opening, err := e.oracle.GenerateOpeningLine(ctx, personality)
	if err != nil {
		return fmt.Errorf("generate opening line: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateGeneratingCaller {
		return nil
	}

	c := call.New(personality)
	c.History = c.History.Append(call.Caller, opening)
	e.current = c
	e.lastCaller = opening
	e.state = StateAssessingOpening
	e.logger.Info("call started", zap.String("call_id", c.ID))
	return nil
}

func (e *Engine) assessOpening(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateAssessingOpening {
		e.mu.Unlock()
		return nil
	}
	history := e.current.History.Tail(len(e.current.History))
	e.mu.Unlock()

	rating, err := e.oracle.AssessHealth(ctx, history)
	if err != nil {
		return fmt.Errorf("assess opening: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAssessingOpening {
		return nil
	}
	e.applyAssessment(rating)
	return nil
}

func (e *Engine) answerCounselor(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateAwaitingOracleReply {
		e.mu.Unlock()
		return nil
	}
	personality := e.current.Personality
	history := e.current.History.Tail(len(e.current.History))
	latest := e.lastPlayer
	e.mu.Unlock()

	line, err := e.oracle.GenerateNextLine(ctx, personality, history, latest)
	if err != nil {
		return fmt.Errorf("generate caller reply: %w", err)
	}

	e.mu.Lock()
	if e.state != StateAwaitingOracleReply {
		e.mu.Unlock()
		return nil
	}
	e.awaitingLine = false
	e.lastCaller = line
	e.current.History = e.current.History.Append(call.Caller, line)
	history = e.current.History.Tail(len(e.current.History))
	e.mu.Unlock()

	rating, err := e.oracle.AssessHealth(ctx, history)
	if err != nil {
		return fmt.Errorf("assess reply: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAwaitingOracleReply {
		return nil
	}
	e.applyAssessment(rating)
	return nil
}

// applyAssessment records a new rating and ends the call when it crosses a
// threshold. Callers hold e.mu.
func (e *Engine) applyAssessment(rating int) {
	rating = health.Clamp(rating)
	delta := rating - e.prevHealth
	e.notes.Enqueue(delta)
	e.prevHealth = rating
	e.curHealth = rating

	outcome := health.Classify(rating)
	e.logger.Info("caller assessed",
		zap.String("call_id", e.current.ID),
		zap.Int("score", rating),
		zap.Int("delta", delta),
	)

	if !outcome.Terminal() {
		e.state = StateAwaitingPlayerInput
		return
	}

	e.session += outcome.Points()
	e.current.Outcome = outcome
	e.completed++
	e.logger.Info("call ended",
		zap.String("call_id", e.current.ID),
		zap.String("outcome", string(outcome)),
		zap.Int("turns", e.current.Turns()),
		zap.Int("session_score", e.session),
	)
	e.current = nil
	e.state = StateGeneratingCaller
}

// Submit hands the counselor's text to the caller. Any string, including
// an empty one, is a valid turn.
func (e *Engine) Submit(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateGameOver {
		return ErrGameOver
	}
	if e.state != StateAwaitingPlayerInput {
		return ErrNotAwaitingInput
	}

	e.lastPlayer = text
	e.current.History = e.current.History.Append(call.Counselor, text)
	e.awaitingLine = true
	e.state = StateAwaitingOracleReply
	return nil
}

// Quit ends the session. The first call saves the score and switches to
// the leaderboard; the next one closes Exited.
func (e *Engine) Quit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateGameOver {
		e.closeExited()
		return nil
	}

	e.state = StateGameOver
	e.current = nil
	e.awaitingLine = false
	e.logger.Info("session quit", zap.String("player", e.player), zap.Int("session_score", e.session))
	return e.flushLocked()
}

// Close saves the score if Quit has not already done so and releases
// anyone waiting on Exited. It is used when the process stops without the
// regular quit sequence.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.flushLocked()
	e.closeExited()
	return err
}

func (e *Engine) flushLocked() error {
	if e.flushed {
		return nil
	}
	e.flushed = true

	err := e.scores.Flush(e.player, e.session)
	e.leaderboard = e.scores.Leaderboard(LeaderboardSize)
	if err != nil {
		e.logger.Error("failed to save scores", zap.Error(err))
		return fmt.Errorf("save scores: %w", err)
	}
	e.logger.Info("scores saved", zap.String("player", e.player), zap.Int("best", e.scores.Best(e.player)))
	return nil
}

func (e *Engine) closeExited() {
	e.closeExitOnce.Do(func() { close(e.exited) })
}

// Exited is closed once the player dismisses the leaderboard or the engine
// is closed.
func (e *Engine) Exited() <-chan struct{} {
	return e.exited
}

// Tick advances notification fading by one frame.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notes.Tick()
}

// Err returns the oracle failure that stopped the engine, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func oracleState(s State) bool {
	switch s {
	case StateGeneratingCaller, StateAssessingOpening, StateAwaitingOracleReply:
		return true
	default:
		return false
	}
}
