package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"strings"

	"rpsarena/internal/common/clock"
	"rpsarena/internal/model"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 4
	codeAttempts = 10
)

// DirectoryConfig holds the dependencies of a Directory
type DirectoryConfig struct {
	Clock clock.Clock
	// Random is the entropy source for room codes; crypto/rand when nil
	Random io.Reader
}

// Directory maps room codes to live rooms. Like Room it is owned by the
// event loop and is not safe for concurrent use.
type Directory struct {
	rooms  map[string]*model.Room
	clock  clock.Clock
	random io.Reader
}

func NewDirectory(cfg *DirectoryConfig) (*Directory, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	random := cfg.Random
	if random == nil {
		random = rand.Reader
	}
	return &Directory{
		rooms:  make(map[string]*model.Room),
		clock:  cfg.Clock,
		random: random,
	}, nil
}

// CreateRoom registers an empty room under a fresh code
func (d *Directory) CreateRoom() (*model.Room, error) {
	code, err := d.generateRoomCode()
	if err != nil {
		return nil, err
	}
	room := model.NewRoom(code, d.clock.Now())
	d.rooms[code] = room
	return room, nil
}

func (d *Directory) generateRoomCode() (string, error) {
	b := make([]byte, codeLength)
	for attempts := 0; attempts < codeAttempts; attempts++ {
		if _, err := io.ReadFull(d.random, b); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
		}
		if _, taken := d.rooms[string(code)]; !taken {
			return string(code), nil
		}
	}
	return "", model.ErrCodeExhausted
}

// NormalizeCode canonicalizes user-typed room codes
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (d *Directory) Get(code string) (*model.Room, bool) {
	room, ok := d.rooms[NormalizeCode(code)]
	return room, ok
}

// JoinRoom seats p in the room under code. full reports whether this join
// brought the room to two players, in which case the caller starts a round.
func (d *Directory) JoinRoom(code string, p *model.Player) (room *model.Room, full bool, err error) {
	room, ok := d.Get(code)
	if !ok {
		return nil, false, model.ErrRoomNotFound
	}
	if err := room.AddPlayer(p); err != nil {
		return nil, false, err
	}
	return room, room.PlayerCount() == model.MaxPlayers, nil
}

// DestroyRoom unregisters a room and stops its timers. Unknown codes are a
// no-op.
func (d *Directory) DestroyRoom(code string) {
	code = NormalizeCode(code)
	room, ok := d.rooms[code]
	if !ok {
		return
	}
	room.CancelTimers()
	delete(d.rooms, code)
}

// IsCurrent reports whether room is still the instance registered under its
// code. Timer continuations use it to detect destroyed rooms.
func (d *Directory) IsCurrent(room *model.Room) bool {
	registered, ok := d.rooms[room.Code]
	return ok && registered == room
}

// Rooms lists snapshots of every live room ordered by code
func (d *Directory) Rooms() []model.Snapshot {
	snapshots := make([]model.Snapshot, 0, len(d.rooms))
	for _, room := range d.rooms {
		snapshots = append(snapshots, room.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].RoomCode < snapshots[j].RoomCode
	})
	return snapshots
}

func (d *Directory) Len() int { return len(d.rooms) }

// Clear destroys every room. Used on shutdown.
func (d *Directory) Clear() {
	for code := range d.rooms {
		d.DestroyRoom(code)
	}
}
