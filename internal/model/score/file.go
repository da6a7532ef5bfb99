package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Load reads a score file. A missing, unreadable or corrupt file means no
// prior scores and is never an error. Entries whose value is not a whole
// number are skipped so one bad entry does not discard the others.
func Load(path string, logger *zap.Logger) map[string]int {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read score file, starting empty", zap.String("path", path), zap.Error(err))
		}
		return map[string]int{}
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("corrupt score file, starting empty", zap.String("path", path), zap.Error(err))
		return map[string]int{}
	}

	scores := make(map[string]int, len(raw))
	for name, value := range raw {
		score, ok := decodeScore(value)
		if !ok {
			logger.Warn("skipping unreadable score", zap.String("player", name), zap.ByteString("value", value))
			continue
		}
		scores[name] = score
	}
	return scores
}

// decodeScore accepts any JSON number with an integral value, so 7 and 7.0
// are both 7.
func decodeScore(value json.RawMessage) (int, bool) {
	var num json.Number
	if err := json.Unmarshal(value, &num); err != nil {
		return 0, false
	}
	if n, err := num.Int64(); err == nil {
		return int(n), true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// FileStore implements Store on top of a JSON object file mapping player
// names to scores. The file is read once when the store is opened and
// rewritten in full on every flush.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	scores map[string]int
}

// NewFileStore opens the score file at path. Load problems are reported
// through logger, which may be nil.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, scores: Load(path, logger)}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Scores returns a snapshot of every stored score.
func (s *FileStore) Scores() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyScores(s.scores)
}

// Best returns the stored score for name, zero when absent.
func (s *FileStore) Best(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[name]
}

// Flush records score for name if it beats the stored value, then writes the
// whole mapping back to disk.
func (s *FileStore) Flush(name string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merge(s.scores, name, score)
	return s.write()
}

// Leaderboard returns up to limit entries, best first.
func (s *FileStore) Leaderboard(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank(s.scores, limit)
}

// write replaces the file atomically so a failed write leaves the previous
// snapshot intact.
func (s *FileStore) write() error {
	data, err := json.MarshalIndent(s.scores, "", "    ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".scores-*.json")
	if err != nil {
		return fmt.Errorf("create temp score file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp score file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace score file: %w", err)
	}
	return nil
}
