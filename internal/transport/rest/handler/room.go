package handler

import (
	"context"
	"errors"
	"net/http"

	"rpsarena/internal/model"

	"github.com/gorilla/mux"
)

// RoomReader is the read-only view of live rooms
type RoomReader interface {
	List(ctx context.Context) ([]model.Snapshot, error)
	Get(ctx context.Context, code string) (model.Snapshot, error)
}

// RoomHandler handles room endpoints
type RoomHandler struct {
	rooms RoomReader
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomReader) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	snapshot, err := h.rooms.Get(r.Context(), code)
	if errors.Is(err, model.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
