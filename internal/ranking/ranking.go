// Package ranking keeps the local top-10 leaderboard. The list is stored as
// a single JSON value in a key-value store so every save is one overwrite.
package ranking

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
)

// Key is the store key the ranking list lives under.
const Key = "climb.ranking"

// MaxEntries is the number of entries kept after a save.
const MaxEntries = 10

// Entry is one ranking row. Time is the number of seconds the climb took
// and is nil for sessions that ended without reaching the goal.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Time  *int   `json:"time,omitempty"`
}

// Seconds returns a Time value for entries of finished climbs.
func Seconds(s int) *int {
	return &s
}

// Less reports whether a ranks above b: higher score first, then the
// faster time. Entries without a time rank after timed ones.
func Less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	switch {
	case a.Time != nil && b.Time != nil:
		return *a.Time < *b.Time
	case a.Time != nil:
		return true
	default:
		return false
	}
}

// Sort orders entries in ranking order. Equal entries keep their
// relative order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Ranking reads and writes the leaderboard through a KV store.
type Ranking struct {
	kv     KV
	logger *log.Logger
}

// New creates a ranking over kv. A nil logger discards warnings.
func New(kv KV, logger *log.Logger) *Ranking {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ranking{kv: kv, logger: logger}
}

// Load returns the stored list. Missing, unreadable or corrupt data yields
// an empty list.
func (r *Ranking) Load() []Entry {
	raw, ok, err := r.kv.Get(Key)
	if err != nil {
		r.logger.Warn("ranking read failed", "err", err)
		return []Entry{}
	}
	return r.decode(raw, ok)
}

func (r *Ranking) decode(raw string, ok bool) []Entry {
	if !ok || raw == "" {
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.logger.Warn("ranking data is corrupt, starting empty", "err", err)
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

// Save adds e, re-sorts, keeps the best MaxEntries and writes the list
// back in one atomic update, so rankings sharing a store never drop each
// other's entries. It returns the stored list.
func (r *Ranking) Save(e Entry) ([]Entry, error) {
	var saved []Entry
	err := r.kv.Update(Key, func(old string, ok bool) (string, error) {
		entries := append(r.decode(old, ok), e)
		Sort(entries)
		if len(entries) > MaxEntries {
			entries = entries[:MaxEntries]
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return "", fmt.Errorf("encode: %w", err)
		}
		saved = entries
		return string(data), nil
	})
	if err != nil {
		return nil, fmt.Errorf("ranking: write: %w", err)
	}
	return saved, nil
}

// Reset removes the stored list.
func (r *Ranking) Reset() error {
	if err := r.kv.Remove(Key); err != nil {
		return fmt.Errorf("ranking: reset: %w", err)
	}
	return nil
}
