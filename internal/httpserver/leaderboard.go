// v1
// internal/httpserver/leaderboard.go
package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/whatifwestudios/the-commons/internal/score"
)

// leaderboardRow is the per-participant document handed to the UI. The
// three score fields are pre-formatted one-decimal strings so renderers
// never see NaN or an empty value.
type leaderboardRow struct {
	Rank        int    `json:"rank"`
	RankSuffix  string `json:"rankSuffix"`
	PlayerName  string `json:"playerName"`
	WealthScore string `json:"wealthScore"`
	CivicScore  string `json:"civicScore"`
	Score       string `json:"score"`
}

// leaderboardResponse mirrors the JSON document returned by the API so it
// remains stable even as the backing logic evolves.
type leaderboardResponse struct {
	GeneratedAt string           `json:"generatedAt"`
	Entries     []leaderboardRow `json:"entries"`
}

// leaderboardHandler builds the HTTP handler exposing the ranked
// leaderboard. Every request snapshots the participant store and reruns
// the aggregation so the ranking is always computed fresh from live
// metrics, never patched incrementally.
func leaderboardHandler(logger *slog.Logger, source participantSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var participants []score.Metrics
		if source != nil {
			participants = source.Snapshot()
		}
		entries := score.Rank(participants)

		payload := leaderboardResponse{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Entries:     renderRows(entries),
		}

		logger.Info("leaderboard_response_ready",
			slog.Int("entry_count", len(payload.Entries)),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("leaderboard_encode_failed", slog.Any("err", err))
		}
	})
}

func renderRows(entries []score.LeaderboardEntry) []leaderboardRow {
	rows := make([]leaderboardRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, renderRow(entry))
	}
	return rows
}

func renderRow(entry score.LeaderboardEntry) leaderboardRow {
	return leaderboardRow{
		Rank:        entry.Rank,
		RankSuffix:  entry.RankSuffix,
		PlayerName:  entry.Participant.PlayerName,
		WealthScore: score.FormatScore(entry.Participant.WealthScore),
		CivicScore:  score.FormatScore(entry.Participant.CivicScore),
		Score:       score.FormatScore(entry.Participant.Score),
	}
}
