// v2
// internal/score/aggregator.go
package score

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultPlayerName labels participants whose snapshot arrived without a
// display name.
const DefaultPlayerName = "Player"

// Metrics is the raw per-participant bundle supplied by the simulation
// layer. WealthScore and CivicScore are already-derived inputs; how the
// simulation computes them from live state is owned upstream. Either may be
// NaN when the simulation has not produced a value yet. Score, when
// non-nil, is an authoritative participant-supplied total that overrides
// the equal-weighted composite.
type Metrics struct {
	PlayerID    string
	PlayerName  string
	WealthScore float64
	CivicScore  float64
	Score       *float64

	// Session statistics carried alongside the scores for the end-of-game
	// summary. They do not influence ranking.
	Population     int
	Wealth         float64
	Buildings      int
	LVTCollected   float64
	PublicSpending float64
	LVTRate        float64
	UpdatedAt      time.Time
}

// Participant is one computed leaderboard row. Stored values are kept raw,
// NaN included; substitution to a displayable zero happens only at
// formatting time.
type Participant struct {
	PlayerName  string
	WealthScore float64
	CivicScore  float64
	Score       float64
}

// LeaderboardEntry couples a participant with its 1-based rank and English
// ordinal suffix. Entries are ordered by score descending.
type LeaderboardEntry struct {
	Rank        int
	RankSuffix  string
	Participant Participant
}

// Rank turns raw metric bundles into an ordered leaderboard. The composite
// score is wealthScore + civicScore unless the participant supplied an
// authoritative total. Ordering compares NaN-sanitized scores so an invalid
// metric never poisons the sort, ties keep input order, and the stored raw
// values stay untouched.
func Rank(participants []Metrics) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(participants))
	for _, m := range participants {
		name := m.PlayerName
		if name == "" {
			name = DefaultPlayerName
		}
		total := m.WealthScore + m.CivicScore
		if m.Score != nil {
			total = *m.Score
		}
		entries = append(entries, LeaderboardEntry{
			Participant: Participant{
				PlayerName:  name,
				WealthScore: m.WealthScore,
				CivicScore:  m.CivicScore,
				Score:       total,
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return Displayable(entries[i].Participant.Score) > Displayable(entries[j].Participant.Score)
	})

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].RankSuffix = OrdinalSuffix(i + 1)
	}
	return entries
}

// OrdinalSuffix returns the English ordinal suffix for a positive rank.
// Numbers ending in 11, 12, or 13 take "th"; otherwise 1 takes "st", 2
// takes "nd", 3 takes "rd", and everything else takes "th".
func OrdinalSuffix(n int) string {
	if v := n % 100; v >= 11 && v <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// Displayable sanitizes a metric for comparison and aggregation. Invalid
// values count as zero without the stored metric being rewritten.
func Displayable(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatScore renders a metric with one decimal place, substituting "0.0"
// for invalid values so consumers never see NaN.
func FormatScore(v float64) string {
	return fmt.Sprintf("%.1f", Displayable(v))
}
