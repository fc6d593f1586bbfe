//go:generate go run go.uber.org/mock/mockgen -source=query.go -destination=../mocks/mock_query.go -package=mocks

package service

import (
	"context"

	"rpsarena/internal/model"
)

// Runner executes fn on the event loop and waits for it to finish
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// RoomQuery answers read-only room questions from outside the event loop
type RoomQuery struct {
	runner    Runner
	directory *Directory
}

func NewRoomQuery(runner Runner, directory *Directory) (*RoomQuery, error) {
	if runner == nil {
		return nil, ErrNilRunner
	}
	if directory == nil {
		return nil, ErrNilDirectory
	}
	return &RoomQuery{runner: runner, directory: directory}, nil
}

// List returns a snapshot of every live room
func (q *RoomQuery) List(ctx context.Context) ([]model.Snapshot, error) {
	var rooms []model.Snapshot
	err := q.runner.Do(ctx, func() {
		rooms = q.directory.Rooms()
	})
	// On error the task may still be running on the loop; rooms is not ours
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// Get returns the snapshot of one room, or ErrRoomNotFound
func (q *RoomQuery) Get(ctx context.Context, code string) (model.Snapshot, error) {
	var (
		snapshot model.Snapshot
		found    bool
	)
	err := q.runner.Do(ctx, func() {
		room, ok := q.directory.Get(code)
		if ok {
			snapshot, found = room.Snapshot(), true
		}
	})
	if err != nil {
		return model.Snapshot{}, err
	}
	if !found {
		return model.Snapshot{}, model.ErrRoomNotFound
	}
	return snapshot, nil
}
