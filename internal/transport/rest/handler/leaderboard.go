package handler

import (
	"net/http"

	"rpsarena/internal/cache"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// LeaderboardHandler serves the all-time leaderboard
type LeaderboardHandler struct {
	leaderboard cache.LeaderboardCache
}

// NewLeaderboardHandler creates a new leaderboard handler; a nil cache
// means redis is not configured
func NewLeaderboardHandler(leaderboard cache.LeaderboardCache) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Top handles GET /v1/leaderboard?top=N
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard is not enabled")
		return
	}
	limit, ok := queryLimit(r, "top", defaultLeaderboardSize, maxLeaderboardSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "top must be a positive integer")
		return
	}

	entries, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
