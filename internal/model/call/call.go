// Package call holds the data of a single hotline call and the transient
// feedback shown while it runs.
package call

import (
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/people-person/internal/analysis/health"
)

// Call aggregates everything that lives for the duration of one call.
type Call struct {
	ID          string         `json:"id"`
	Personality string         `json:"personality"`
	History     History        `json:"history"`
	Outcome     health.Outcome `json:"outcome"`
	StartedAt   time.Time      `json:"startedAt"`
}

// New starts a call for a freshly generated caller personality.
func New(personality string) *Call {
	return &Call{
		ID:          uuid.NewString(),
		Personality: personality,
		History:     make(History, 0, 8),
		Outcome:     health.OutcomeInProgress,
		StartedAt:   time.Now().UTC(),
	}
}

// Turns counts counselor utterances so far.
func (c *Call) Turns() int {
	n := 0
	for _, entry := range c.History {
		if entry.Speaker == Counselor {
			n++
		}
	}
	return n
}
