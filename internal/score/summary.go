// v1
// internal/score/summary.go
package score

import (
	"time"

	"github.com/google/uuid"
)

// SessionStats aggregates city-wide totals for the end-of-session summary.
type SessionStats struct {
	Population     int     `json:"population"`
	TotalWealth    float64 `json:"totalWealth"`
	TotalBuildings int     `json:"totalBuildings"`
	LVTCollected   float64 `json:"lvtCollected"`
	PublicSpending float64 `json:"publicSpending"`
	FinalLVTRate   float64 `json:"finalLvtRate"`
}

// Summary is the victory payload: the winner, the full standings, and the
// session statistics, stamped with a unique session id. Rendering it is the
// UI layer's job.
type Summary struct {
	SessionID   string
	GeneratedAt time.Time
	Winner      *LeaderboardEntry
	Standings   []LeaderboardEntry
	Stats       SessionStats
}

// Summarize assembles the end-of-session record from ranked standings and
// the raw metric bundles they were computed from. The rank-1 participant is
// the winner. City-wide counters sum across participants; the final LVT
// rate is taken from the most recently updated snapshot since the rate is a
// shared city setting mirrored onto every participant.
func Summarize(standings []LeaderboardEntry, participants []Metrics, at time.Time) Summary {
	summary := Summary{
		SessionID:   uuid.New().String(),
		GeneratedAt: at.UTC(),
		Standings:   append([]LeaderboardEntry(nil), standings...),
	}
	if len(standings) > 0 {
		winner := standings[0]
		summary.Winner = &winner
	}

	var latest time.Time
	for _, m := range participants {
		summary.Stats.Population += m.Population
		summary.Stats.TotalWealth += Displayable(m.Wealth)
		summary.Stats.TotalBuildings += m.Buildings
		summary.Stats.LVTCollected += Displayable(m.LVTCollected)
		summary.Stats.PublicSpending += Displayable(m.PublicSpending)
		if m.UpdatedAt.After(latest) || latest.IsZero() {
			latest = m.UpdatedAt
			summary.Stats.FinalLVTRate = Displayable(m.LVTRate)
		}
	}
	return summary
}
