// v1
// internal/ingest/store.go
package ingest

import (
	"sync"

	"github.com/whatifwestudios/the-commons/internal/score"
)

// ParticipantStore keeps the latest metric snapshot per participant. It is
// safe for concurrent use. Participants keep their first-seen order, which
// is the tie-break order the leaderboard relies on.
type ParticipantStore struct {
	mu      sync.RWMutex
	players map[string]score.Metrics
	order   []string
}

// NewParticipantStore initializes an empty store.
func NewParticipantStore() *ParticipantStore {
	return &ParticipantStore{players: make(map[string]score.Metrics)}
}

// Upsert replaces the stored snapshot for the participant, registering the
// participant on first sight. It reports whether the participant was new
// and the number of participants tracked afterwards.
func (s *ParticipantStore) Upsert(m score.Metrics) (fresh bool, count int) {
	if m.PlayerID == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return false, len(s.order)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[m.PlayerID]; !exists {
		s.order = append(s.order, m.PlayerID)
		fresh = true
	}
	s.players[m.PlayerID] = m
	return fresh, len(s.order)
}

// Snapshot returns a defensive copy of all tracked metrics in first-seen
// participant order. Ranking always runs on such a snapshot, never on the
// live map.
func (s *ParticipantStore) Snapshot() []score.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]score.Metrics, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out
}

// Len reports the number of participants tracked.
func (s *ParticipantStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
