// v1
// internal/httpserver/victory.go
package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/whatifwestudios/the-commons/internal/score"
)

// victoryResponse is the end-of-session payload consumed by the victory
// screen: the winner, the full final scoreboard, and the city-wide
// statistics.
type victoryResponse struct {
	SessionID   string             `json:"sessionId"`
	GeneratedAt string             `json:"generatedAt"`
	Winner      *leaderboardRow    `json:"winner"`
	Standings   []leaderboardRow   `json:"standings"`
	Stats       score.SessionStats `json:"stats"`
}

// victoryHandler assembles the victory summary from a fresh snapshot of
// participant metrics. The rank-1 participant is the winner; rendering the
// announcement is the client's job.
func victoryHandler(logger *slog.Logger, source participantSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var participants []score.Metrics
		if source != nil {
			participants = source.Snapshot()
		}
		standings := score.Rank(participants)
		summary := score.Summarize(standings, participants, time.Now())

		payload := victoryResponse{
			SessionID:   summary.SessionID,
			GeneratedAt: summary.GeneratedAt.Format(time.RFC3339),
			Standings:   renderRows(summary.Standings),
			Stats:       summary.Stats,
		}
		if summary.Winner != nil {
			row := renderRow(*summary.Winner)
			payload.Winner = &row
		}

		logger.Info("victory_summary_ready",
			slog.String("session_id", summary.SessionID),
			slog.Int("standings", len(payload.Standings)),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("victory_encode_failed", slog.Any("err", err))
		}
	})
}
