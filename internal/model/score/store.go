// Package score keeps each player's best session score.
package score

import (
	"sort"
	"sync"
)

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store exposes best scores to the call engine and the presentation layer.
// Names are compared exactly; "alice" and "Alice" are different players.
type Store interface {
	Scores() map[string]int
	Best(name string) int
	Flush(name string, score int) error
	Leaderboard(limit int) []Entry
}

// MemoryStore implements Store without persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied scores.
func NewMemoryStore(initial map[string]int) *MemoryStore {
	return &MemoryStore{scores: copyScores(initial)}
}

// Scores returns a snapshot of every stored score.
func (s *MemoryStore) Scores() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyScores(s.scores)
}

// Best returns the stored score for name, zero when absent.
func (s *MemoryStore) Best(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[name]
}

// Flush records score for name if it beats the stored value.
func (s *MemoryStore) Flush(name string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merge(s.scores, name, score)
	return nil
}

// Leaderboard returns up to limit entries, best first.
func (s *MemoryStore) Leaderboard(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank(s.scores, limit)
}

// merge applies the never-decrease rule. It reports whether the map changed.
func merge(scores map[string]int, name string, score int) bool {
	if score > scores[name] {
		scores[name] = score
		return true
	}
	return false
}

// rank sorts by score descending, ties broken by name. limit <= 0 means all.
func rank(scores map[string]int, limit int) []Entry {
	entries := make([]Entry, 0, len(scores))
	for name, sc := range scores {
		entries = append(entries, Entry{Name: name, Score: sc})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func copyScores(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for name, sc := range in {
		out[name] = sc
	}
	return out
}
