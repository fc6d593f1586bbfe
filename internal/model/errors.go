package model

// RoomError is a custom error type for room lifecycle errors
type RoomError string

// Error implements the error interface
func (e RoomError) Error() string {
	return string(e)
}

const (
	ErrRoomNotFound  RoomError = "room not found"
	ErrRoomFull      RoomError = "room is full"
	ErrAlreadyInRoom RoomError = "player is already in a room"
	ErrNotInRoom     RoomError = "player is not in a room"
	ErrCodeExhausted RoomError = "failed to generate unique room code"
)
