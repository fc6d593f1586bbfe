package service

// EventType names an application event crossing the transport boundary
type EventType string

// Inbound event types
const (
	EventCreateRoom   EventType = "create_room"
	EventJoinRoom     EventType = "join_room"
	EventPlayerChoice EventType = "player_choice"
	EventChat         EventType = "chat_message"
	EventLeaveRoom    EventType = "leave_room"
	EventSetAvatar    EventType = "set_avatar"
	EventSendSticker  EventType = "send_sticker"
)

// Outbound event types
const (
	EventRoomCreated      EventType = "room_created"
	EventJoinSuccess      EventType = "join_success"
	EventGameUpdate       EventType = "game_update"
	EventRoundResult      EventType = "round_result"
	EventChatBroadcast    EventType = "chat_broadcast"
	EventPlayerJoined     EventType = "player_joined"
	EventPlayerLeft       EventType = "player_left"
	EventAvatarUpdate     EventType = "avatar_update"
	EventStickerBroadcast EventType = "sticker_broadcast"
	EventError            EventType = "error"
)

// Event is the {type, payload} envelope sent to a connection
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Inbound is a decoded client event. Payload holds one of the *Payload
// request types below, matching Type.
type Inbound struct {
	Type    EventType
	Payload interface{}
}

// CreateRoomPayload is sent with create_room
type CreateRoomPayload struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// JoinRoomPayload is sent with join_room
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type ChoicePayload struct {
	Choice string `json:"choice"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

type AvatarPayload struct {
	Avatar string `json:"avatar"`
}

type StickerPayload struct {
	Sticker string `json:"sticker"`
}

// RoomCreatedPayload answers create_room
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

type ChatBroadcastPayload struct {
	SenderName   string `json:"sender_name"`
	SenderAvatar string `json:"sender_avatar"`
	Text         string `json:"text"`
}

type PlayerJoinedPayload struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type PlayerLeftPayload struct {
	Name string `json:"name"`
}

type AvatarUpdatePayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type StickerBroadcastPayload struct {
	SenderName   string `json:"sender_name"`
	SenderAvatar string `json:"sender_avatar"`
	Sticker      string `json:"sticker"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func errorEvent(message string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: message}}
}
