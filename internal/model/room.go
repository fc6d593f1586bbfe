package model

import (
	"time"

	"rpsarena/internal/common/clock"

	"github.com/samber/lo"
)

type RoomState string

const (
	StateWaiting RoomState = "waiting"
	StatePlaying RoomState = "playing"
	StateResult  RoomState = "result"
)

// MaxPlayers is the fixed number of slots in a room
const MaxPlayers = 2

// Room is a two-slot game session identified by a short code.
// It is not safe for concurrent use; callers serialize access.
type Room struct {
	Code      string
	CreatedAt time.Time

	players []*Player
	state   RoomState
	choices map[string]Choice // player ID -> choice for the current round
	round   int

	deadline clock.Timer
	pause    clock.Timer
}

func NewRoom(code string, createdAt time.Time) *Room {
	return &Room{
		Code:      code,
		CreatedAt: createdAt,
		state:     StateWaiting,
		choices:   make(map[string]Choice),
	}
}

func (r *Room) State() RoomState { return r.state }

func (r *Room) Round() int { return r.round }

func (r *Room) PlayerCount() int { return len(r.players) }

// Players returns the players in join order
func (r *Room) Players() []*Player {
	return append([]*Player(nil), r.players...)
}

func (r *Room) Player(id string) (*Player, bool) {
	return lo.Find(r.players, func(p *Player) bool { return p.ID == id })
}

// AddPlayer appends p if a slot is free
func (r *Room) AddPlayer(p *Player) error {
	if len(r.players) >= MaxPlayers {
		return ErrRoomFull
	}
	if _, exists := r.Player(p.ID); exists {
		return ErrAlreadyInRoom
	}
	r.players = append(r.players, p)
	return nil
}

// RemovePlayer drops the player with the given id and reports whether the
// room is now empty. A room left with fewer than two players goes back to
// waiting. Timers are not touched here; see CancelTimers.
func (r *Room) RemovePlayer(id string) (*Player, bool) {
	removed, ok := r.Player(id)
	if !ok {
		return nil, len(r.players) == 0
	}
	r.players = lo.Filter(r.players, func(p *Player, _ int) bool { return p.ID != id })
	delete(r.choices, id)
	removed.Choice = ""

	if len(r.players) < MaxPlayers {
		r.state = StateWaiting
		r.clearChoices()
	}
	return removed, len(r.players) == 0
}

// SubmitChoice records a player's choice for the current round. It returns
// false for off-phase submissions, invalid choices, unknown players and
// repeated submissions; the first submission is kept.
func (r *Room) SubmitChoice(id string, choice Choice) bool {
	if r.state != StatePlaying || !choice.Valid() {
		return false
	}
	p, ok := r.Player(id)
	if !ok {
		return false
	}
	if _, already := r.choices[id]; already {
		return false
	}
	r.choices[id] = choice
	p.Choice = choice
	return true
}

// RoundComplete reports whether both players have submitted
func (r *Room) RoundComplete() bool {
	if len(r.players) != MaxPlayers {
		return false
	}
	for _, p := range r.players {
		if _, ok := r.choices[p.ID]; !ok {
			return false
		}
	}
	return true
}

// Pending returns the players who have not submitted this round
func (r *Room) Pending() []*Player {
	return lo.Filter(r.players, func(p *Player, _ int) bool {
		_, ok := r.choices[p.ID]
		return !ok
	})
}

// ResolveRound scores a complete round and moves the room to result.
// An incomplete round yields ResultError and leaves the room untouched.
func (r *Room) ResolveRound() Outcome {
	outcome := Outcome{RoomCode: r.Code, Round: r.round, Result: ResultError}
	if !r.RoundComplete() {
		return outcome
	}

	first, second := r.players[0], r.players[1]
	c1, c2 := r.choices[first.ID], r.choices[second.ID]
	outcome.Choices = []PlayerChoice{
		{PlayerID: first.ID, Name: first.Name, Choice: c1},
		{PlayerID: second.ID, Name: second.Name, Choice: c2},
	}

	switch Resolve(c1, c2) {
	case VerdictDraw:
		outcome.Result = ResultDraw
		first.recordDraw()
		second.recordDraw()
	case VerdictFirst:
		outcome.Result = ResultWin
		outcome.WinnerID, outcome.WinnerName = first.ID, first.Name
		first.recordWin()
		second.recordLoss()
	case VerdictSecond:
		outcome.Result = ResultWin
		outcome.WinnerID, outcome.WinnerName = second.ID, second.Name
		second.recordWin()
		first.recordLoss()
	}

	r.state = StateResult
	return outcome
}

// StartNewRound clears the previous round and moves the room to playing.
// It requires a full room.
func (r *Room) StartNewRound() bool {
	if len(r.players) != MaxPlayers {
		return false
	}
	r.clearChoices()
	r.round++
	r.state = StatePlaying
	return true
}

func (r *Room) clearChoices() {
	clear(r.choices)
	for _, p := range r.players {
		p.Choice = ""
	}
}

// Deadline returns the live round-deadline timer, if any
func (r *Room) Deadline() clock.Timer { return r.deadline }

// SetDeadline installs a new deadline timer, stopping any previous one
func (r *Room) SetDeadline(t clock.Timer) {
	r.StopDeadline()
	r.deadline = t
}

func (r *Room) StopDeadline() {
	if r.deadline != nil {
		r.deadline.Stop()
		r.deadline = nil
	}
}

// Pause returns the live post-result pause timer, if any
func (r *Room) Pause() clock.Timer { return r.pause }

// SetPause installs a new pause timer, stopping any previous one
func (r *Room) SetPause(t clock.Timer) {
	r.StopPause()
	r.pause = t
}

func (r *Room) StopPause() {
	if r.pause != nil {
		r.pause.Stop()
		r.pause = nil
	}
}

// CancelTimers stops every outstanding timer owned by the room
func (r *Room) CancelTimers() {
	r.StopDeadline()
	r.StopPause()
}

// Snapshot is an immutable public view of a room
type Snapshot struct {
	RoomCode         string       `json:"room_code"`
	GameState        RoomState    `json:"game_state"`
	Round            int          `json:"round"`
	Players          []PlayerView `json:"players"`
	PlayerMadeChoice string       `json:"player_made_choice,omitempty"`
}

func (r *Room) Snapshot() Snapshot {
	return Snapshot{
		RoomCode:  r.Code,
		GameState: r.state,
		Round:     r.round,
		Players:   lo.Map(r.players, func(p *Player, _ int) PlayerView { return p.View() }),
	}
}
