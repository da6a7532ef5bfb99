package call

import "github.com/zhouzirui/people-person/internal/analysis/health"

const (
	// FullAlpha is the opacity of a new notification.
	FullAlpha = 255
	// FadeStep is subtracted from every notification each frame.
	FadeStep = 4
)

// Notification is a fading score-delta message.
type Notification struct {
	Text  string `json:"text"`
	Alpha int    `json:"alpha"`
}

// Queue holds the notifications currently on screen. It is not safe for
// concurrent use; the engine guards it.
type Queue struct {
	items []Notification
}

// Enqueue adds a fully opaque notification for a score delta.
func (q *Queue) Enqueue(delta int) {
	q.items = append(q.items, Notification{Text: health.FormatDelta(delta), Alpha: FullAlpha})
}

// Tick fades every notification by one step and drops the ones that have
// become invisible. The next state is built fresh rather than pruned in place.
func (q *Queue) Tick() {
	next := make([]Notification, 0, len(q.items))
	for _, n := range q.items {
		n.Alpha -= FadeStep
		if n.Alpha > 0 {
			next = append(next, n)
		}
	}
	q.items = next
}

// Active returns a copy of the visible notifications, oldest first.
func (q *Queue) Active() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len reports how many notifications are visible.
func (q *Queue) Len() int {
	return len(q.items)
}
