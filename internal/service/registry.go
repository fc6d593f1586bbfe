package service

import (
	"rpsarena/internal/model"

	"github.com/samber/lo"
)

// Session binds one connection to at most one player for the connection's
// lifetime. Player and RoomCode are empty until a create or join succeeds.
type Session struct {
	Conn     Conn
	Player   *model.Player
	RoomCode string
	// Closing is set once the server has asked the connection to close.
	// Events still in flight from it are ignored.
	Closing bool
}

// InRoom reports whether the session is currently seated in a room
func (s *Session) InRoom() bool {
	return s.Player != nil && s.RoomCode != ""
}

// Registry tracks live sessions by connection id. It is owned by the event
// loop and carries no locks.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Attach registers conn, returning the existing session if already known
func (r *Registry) Attach(conn Conn) *Session {
	if s, ok := r.sessions[conn.ID()]; ok {
		return s
	}
	s := &Session{Conn: conn}
	r.sessions[conn.ID()] = s
	return s
}

// Detach forgets the session bound to id and returns it
func (r *Registry) Detach(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int { return len(r.sessions) }

// Send delivers evt to a single player. Unknown players are skipped.
func (r *Registry) Send(playerID string, evt Event) {
	if s, ok := r.sessions[playerID]; ok {
		s.Conn.Send(evt)
	}
}

// Broadcast delivers evt to every player in room, except the listed ids.
// Each recipient is independent: a dead connection only loses its own copy.
func (r *Registry) Broadcast(room *model.Room, evt Event, except ...string) {
	for _, p := range room.Players() {
		if lo.Contains(except, p.ID) {
			continue
		}
		r.Send(p.ID, evt)
	}
}

// CloseAll asks every live connection to close with reason
func (r *Registry) CloseAll(reason string) {
	for _, s := range r.sessions {
		s.Closing = true
		s.Conn.Close(reason)
	}
}
