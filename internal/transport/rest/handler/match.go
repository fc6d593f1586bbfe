package handler

import (
	"context"
	"net/http"

	"rpsarena/internal/model"

	"github.com/gorilla/mux"
)

const (
	defaultMatchLimit = 20
	maxMatchLimit     = 100
)

// MatchHistory reads recorded rounds
type MatchHistory interface {
	Recent(ctx context.Context, limit int) ([]*model.Match, error)
	RecentByRoom(ctx context.Context, roomCode string, limit int) ([]*model.Match, error)
}

// MatchHandler serves round history
type MatchHandler struct {
	matches MatchHistory
}

// NewMatchHandler creates a new match handler; a nil history means mongo is
// not configured
func NewMatchHandler(matches MatchHistory) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// Recent handles GET /v1/matches?limit=N
func (h *MatchHandler) Recent(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, limit int) ([]*model.Match, error) {
		return h.matches.Recent(ctx, limit)
	})
}

// ByRoom handles GET /v1/rooms/{code}/matches?limit=N
func (h *MatchHandler) ByRoom(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	h.serve(w, r, func(ctx context.Context, limit int) ([]*model.Match, error) {
		return h.matches.RecentByRoom(ctx, code, limit)
	})
}

func (h *MatchHandler) serve(w http.ResponseWriter, r *http.Request, query func(context.Context, int) ([]*model.Match, error)) {
	if h.matches == nil {
		writeError(w, http.StatusServiceUnavailable, "match history is not enabled")
		return
	}
	limit, ok := queryLimit(r, "limit", defaultMatchLimit, maxMatchLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	matches, err := query(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}
