package service

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"rpsarena/internal/model"
)

const (
	maxNameLength    = 24
	maxChatLength    = 500
	maxTokenLength   = 64
	msgRoomNotFound  = "Room not found."
	msgRoomFull      = "Room is full."
	msgAlreadyInRoom = "You are already in a room."
	msgInvalidChoice = "Invalid choice."
	msgUnknownEvent  = "Unknown event type."
	msgCreateFailed  = "Could not create a room, please retry."
)

// LifecycleConfig holds the dependencies of a Lifecycle
type LifecycleConfig struct {
	Directory    *Directory
	Registry     *Registry
	Orchestrator *Orchestrator
	Logger       *slog.Logger
}

// Lifecycle binds connections to players and routes their events. It is
// driven exclusively by the event loop.
type Lifecycle struct {
	directory    *Directory
	registry     *Registry
	orchestrator *Orchestrator
	log          *slog.Logger
}

func NewLifecycle(cfg *LifecycleConfig) (*Lifecycle, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Directory == nil {
		return nil, ErrNilDirectory
	}
	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}
	if cfg.Orchestrator == nil {
		return nil, ErrNilOrchestrator
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}
	return &Lifecycle{
		directory:    cfg.Directory,
		registry:     cfg.Registry,
		orchestrator: cfg.Orchestrator,
		log:          cfg.Logger,
	}, nil
}

// Connect registers a new connection
func (l *Lifecycle) Connect(conn Conn) {
	l.registry.Attach(conn)
	l.log.Debug("Connection attached", "conn", conn.ID(), "connections", l.registry.Len())
}

// Shutdown stops every room timer and closes all connections. Their
// disconnects still flow through Disconnect if the loop keeps running.
func (l *Lifecycle) Shutdown() {
	rooms := l.directory.Len()
	l.directory.Clear()
	l.registry.CloseAll(CloseReasonShutdown)
	l.log.Info("Lifecycle shut down", "rooms", rooms, "connections", l.registry.Len())
}

// Disconnect runs the cleanup for a lost connection: the player leaves
// their room, which is destroyed if it is now empty.
func (l *Lifecycle) Disconnect(conn Conn) {
	s, ok := l.registry.Detach(conn.ID())
	if !ok {
		return
	}
	if s.InRoom() {
		l.leave(s)
	}
	l.log.Debug("Connection detached", "conn", conn.ID(), "connections", l.registry.Len())
}

// Handle routes one inbound event. Events whose preconditions do not hold
// are dropped; capacity failures are reported back to the sender. Events
// from connections that were never connected or already disconnected are
// ignored, as are events from connections the server is closing.
func (l *Lifecycle) Handle(conn Conn, in Inbound) {
	s, ok := l.registry.Get(conn.ID())
	if !ok {
		return
	}
	if s.Closing {
		l.log.Debug("Dropped event from closing connection", "conn", conn.ID(), "type", in.Type)
		return
	}

	switch in.Type {
	case EventCreateRoom:
		payload, _ := in.Payload.(CreateRoomPayload)
		l.createRoom(s, payload)
	case EventJoinRoom:
		payload, _ := in.Payload.(JoinRoomPayload)
		l.joinRoom(s, payload)
	case EventPlayerChoice:
		payload, _ := in.Payload.(ChoicePayload)
		l.submitChoice(s, payload)
	case EventChat:
		payload, _ := in.Payload.(ChatPayload)
		l.chat(s, payload)
	case EventSetAvatar:
		payload, _ := in.Payload.(AvatarPayload)
		l.setAvatar(s, payload)
	case EventSendSticker:
		payload, _ := in.Payload.(StickerPayload)
		l.sendSticker(s, payload)
	case EventLeaveRoom:
		if s.InRoom() {
			l.leave(s)
		}
	default:
		l.log.Debug("Unknown inbound event", "conn", conn.ID(), "type", in.Type)
		s.Conn.Send(errorEvent(msgUnknownEvent))
	}
}

func (l *Lifecycle) createRoom(s *Session, payload CreateRoomPayload) {
	if s.InRoom() {
		s.Conn.Send(errorEvent(msgAlreadyInRoom))
		return
	}
	room, err := l.directory.CreateRoom()
	if err != nil {
		l.log.Error("Failed to create room", "conn", s.Conn.ID(), "error", err)
		s.Conn.Send(errorEvent(msgCreateFailed))
		return
	}

	player := model.NewPlayer(s.Conn.ID(), clean(payload.Name, maxNameLength), clean(payload.Avatar, maxTokenLength))
	if err := room.AddPlayer(player); err != nil {
		l.directory.DestroyRoom(room.Code)
		s.Conn.Send(errorEvent(errorMessage(err)))
		return
	}
	s.Player, s.RoomCode = player, room.Code

	l.log.Info("Room created", "room", room.Code, "player", player.ID, "rooms", l.directory.Len())
	s.Conn.Send(Event{Type: EventRoomCreated, Payload: RoomCreatedPayload{RoomCode: room.Code}})
	s.Conn.Send(Event{Type: EventGameUpdate, Payload: room.Snapshot()})
}

func (l *Lifecycle) joinRoom(s *Session, payload JoinRoomPayload) {
	if s.InRoom() {
		s.Conn.Send(errorEvent(msgAlreadyInRoom))
		return
	}

	player := model.NewPlayer(s.Conn.ID(), clean(payload.Name, maxNameLength), clean(payload.Avatar, maxTokenLength))
	room, full, err := l.directory.JoinRoom(payload.RoomCode, player)
	if err != nil {
		l.log.Debug("Join rejected", "room", payload.RoomCode, "conn", s.Conn.ID(), "error", err)
		s.Conn.Send(errorEvent(errorMessage(err)))
		return
	}
	s.Player, s.RoomCode = player, room.Code

	l.log.Info("Player joined", "room", room.Code, "player", player.ID)
	s.Conn.Send(Event{Type: EventJoinSuccess, Payload: room.Snapshot()})

	if !full {
		l.registry.Broadcast(room, Event{Type: EventGameUpdate, Payload: room.Snapshot()})
		return
	}
	l.registry.Broadcast(room, Event{Type: EventPlayerJoined, Payload: PlayerJoinedPayload{
		Name:   player.Name,
		Avatar: player.Avatar,
	}}, player.ID)
	l.orchestrator.BeginRound(room)
}

func (l *Lifecycle) submitChoice(s *Session, payload ChoicePayload) {
	room, ok := l.roomOf(s)
	if !ok {
		return
	}
	choice, valid := model.ParseChoice(payload.Choice)
	if !valid {
		s.Conn.Send(errorEvent(msgInvalidChoice))
		return
	}
	l.orchestrator.SubmitChoice(room, s.Player, choice)
}

func (l *Lifecycle) chat(s *Session, payload ChatPayload) {
	room, ok := l.roomOf(s)
	if !ok {
		return
	}
	text := clean(payload.Text, maxChatLength)
	if text == "" {
		return
	}
	l.registry.Broadcast(room, Event{Type: EventChatBroadcast, Payload: ChatBroadcastPayload{
		SenderName:   s.Player.Name,
		SenderAvatar: s.Player.Avatar,
		Text:         text,
	}})
}

func (l *Lifecycle) setAvatar(s *Session, payload AvatarPayload) {
	room, ok := l.roomOf(s)
	if !ok {
		return
	}
	avatar := clean(payload.Avatar, maxTokenLength)
	if avatar == "" || avatar == s.Player.Avatar {
		return
	}
	s.Player.Avatar = avatar
	l.registry.Broadcast(room, Event{Type: EventAvatarUpdate, Payload: AvatarUpdatePayload{
		PlayerID: s.Player.ID,
		Name:     s.Player.Name,
		Avatar:   avatar,
	}})
	l.registry.Broadcast(room, Event{Type: EventGameUpdate, Payload: room.Snapshot()})
}

func (l *Lifecycle) sendSticker(s *Session, payload StickerPayload) {
	room, ok := l.roomOf(s)
	if !ok {
		return
	}
	sticker := clean(payload.Sticker, maxTokenLength)
	if sticker == "" {
		return
	}
	l.registry.Broadcast(room, Event{Type: EventStickerBroadcast, Payload: StickerBroadcastPayload{
		SenderName:   s.Player.Name,
		SenderAvatar: s.Player.Avatar,
		Sticker:      sticker,
	}})
}

// leave removes the session's player from its room. Timers are cancelled
// before removal so nothing fires against the old membership.
func (l *Lifecycle) leave(s *Session) {
	room, ok := l.roomOf(s)
	player := s.Player
	s.Player, s.RoomCode = nil, ""
	if !ok {
		return
	}

	room.CancelTimers()
	removed, empty := room.RemovePlayer(player.ID)
	if removed == nil {
		return
	}
	if empty {
		l.directory.DestroyRoom(room.Code)
		l.log.Info("Room closed", "room", room.Code, "rooms", l.directory.Len())
		return
	}

	l.log.Info("Player left", "room", room.Code, "player", removed.ID)
	l.registry.Broadcast(room, Event{Type: EventPlayerLeft, Payload: PlayerLeftPayload{Name: removed.Name}})
	l.registry.Broadcast(room, Event{Type: EventGameUpdate, Payload: room.Snapshot()})
}

func (l *Lifecycle) roomOf(s *Session) (*model.Room, bool) {
	if !s.InRoom() {
		return nil, false
	}
	return l.directory.Get(s.RoomCode)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return msgRoomNotFound
	case errors.Is(err, model.ErrRoomFull):
		return msgRoomFull
	case errors.Is(err, model.ErrAlreadyInRoom):
		return msgAlreadyInRoom
	}
	return err.Error()
}

// clean trims s and truncates it to max runes
func clean(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
