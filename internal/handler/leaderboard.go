package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/bis-arena/internal/service"
)

// LeaderboardHandler serves the top-10 ranking.
type LeaderboardHandler struct {
	scores *service.ScoreService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(scores *service.ScoreService) *LeaderboardHandler {
	return &LeaderboardHandler{scores: scores}
}

// HandleGet returns the leaderboard, recomputed on every request.
// GET /api/leaderboard
// Response: 200 {"leaderboard":[{"username":"...","points":N,"rank":N}]}
func (h *LeaderboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scores.Leaderboard(r.Context())
	if err != nil {
		slog.Error("fetch leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leaderboard": toLeaderboardDTOs(entries),
	})
}
