package session

import (
	"github.com/zhouzirui/people-person/internal/model/call"
	"github.com/zhouzirui/people-person/internal/model/score"
)

// Placeholders shown while the oracle is working.
const (
	PlaceholderGenerating = "Generating new caller..."
	PlaceholderThinking   = "Thinking..."
)

// View is the read-only snapshot a presentation layer renders each frame.
type View struct {
	Player              string              `json:"player"`
	SessionScore        int                 `json:"sessionScore"`
	BestScore           int                 `json:"bestScore"`
	CurrentHealthScore  int                 `json:"currentHealthScore"`
	LastCallerText      string              `json:"lastCallerText"`
	LastPlayerText      string              `json:"lastPlayerText"`
	ActiveNotifications []call.Notification `json:"activeNotifications"`
	IsGameOver          bool                `json:"isGameOver"`
	State               State               `json:"state"`
	Pending             bool                `json:"pending"`
	Placeholder         string              `json:"placeholder,omitempty"`
	CallID              string              `json:"callId,omitempty"`
	Turn                int                 `json:"turn"`
	CallsCompleted      int                 `json:"callsCompleted"`
	Leaderboard         []score.Entry       `json:"leaderboard,omitempty"`
	Error               string              `json:"error,omitempty"`
}

// View returns the current snapshot.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	best := e.storedBest
	if e.session > best {
		best = e.session
	}

	v := View{
		Player:              e.player,
		SessionScore:        e.session,
		BestScore:           best,
		CurrentHealthScore:  e.curHealth,
		LastCallerText:      e.lastCaller,
		LastPlayerText:      e.lastPlayer,
		ActiveNotifications: e.notes.Active(),
		IsGameOver:          e.state == StateGameOver,
		State:               e.state,
		Pending:             e.busy,
		CallsCompleted:      e.completed,
	}

	switch {
	case e.state == StateGeneratingCaller:
		v.Placeholder = PlaceholderGenerating
	case e.state == StateAwaitingOracleReply && e.awaitingLine:
		v.Placeholder = PlaceholderThinking
	}

	if e.current != nil {
		v.CallID = e.current.ID
		v.Turn = e.current.Turns()
	}
	if v.IsGameOver {
		v.Leaderboard = append([]score.Entry(nil), e.leaderboard...)
	}
	if e.err != nil {
		v.Error = e.err.Error()
	}
	return v
}
