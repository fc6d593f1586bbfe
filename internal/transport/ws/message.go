package ws

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"rpsarena/internal/service"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownEvent     = errors.New("unknown event type")
)

// envelope is the wire shape of every frame
type envelope struct {
	Type    service.EventType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

// decodeInbound parses one text frame into a typed inbound event
func decodeInbound(data []byte) (service.Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return service.Inbound{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	var payload interface{}
	var err error
	switch env.Type {
	case service.EventCreateRoom:
		payload, err = decodePayload[service.CreateRoomPayload](env.Payload)
	case service.EventJoinRoom:
		payload, err = decodePayload[service.JoinRoomPayload](env.Payload)
	case service.EventPlayerChoice:
		payload, err = decodePayload[service.ChoicePayload](env.Payload)
	case service.EventChat:
		payload, err = decodePayload[service.ChatPayload](env.Payload)
	case service.EventSetAvatar:
		payload, err = decodePayload[service.AvatarPayload](env.Payload)
	case service.EventSendSticker:
		payload, err = decodePayload[service.StickerPayload](env.Payload)
	case service.EventLeaveRoom:
	default:
		return service.Inbound{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
	if err != nil {
		return service.Inbound{}, err
	}
	return service.Inbound{Type: env.Type, Payload: payload}, nil
}

// decodePayload unmarshals raw into T; a missing or null payload yields the
// zero value
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return v, nil
}

func decodeErrorMessage(err error) string {
	if errors.Is(err, ErrUnknownEvent) {
		return "Unknown event type."
	}
	return "Malformed message."
}
