package service

import (
	"log/slog"
	"testing"

	"rpsarena/internal/common/clock"
	"rpsarena/internal/model"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// seat puts two connected players straight into a registered room
func seat(t *testing.T, f *fixture) (*model.Room, *recordingConn, *recordingConn) {
	room, err := f.directory.CreateRoom()
	require.NoError(t, err)
	alice, bob := f.connect("alice"), f.connect("bob")
	for _, conn := range []*recordingConn{alice, bob} {
		p := model.NewPlayer(conn.ID(), conn.ID(), "")
		require.NoError(t, room.AddPlayer(p))
		s, _ := f.registry.Get(conn.ID())
		s.Player, s.RoomCode = p, room.Code
	}
	return room, alice, bob
}

func TestOrchestrator_StaleDeadlineAfterDestroyIsNoop(t *testing.T) {
	req := require.New(t)
	queue := &queueScheduler{}
	f := newFixture(t, queue, nil)
	room, alice, bob := seat(t, f)

	f.orchestrator.BeginRound(room)
	// The deadline fires while the loop is busy, so its continuation is queued
	f.clock.Advance(DefaultRoundTimeout)
	req.Len(queue.queue, 1)

	f.directory.DestroyRoom(room.Code)
	queue.flush()

	req.Empty(alice.closed)
	req.Empty(bob.closed)
}

func TestOrchestrator_StaleDeadlineFromEarlierRoundIsNoop(t *testing.T) {
	req := require.New(t)
	queue := &queueScheduler{}
	f := newFixture(t, queue, nil)
	room, alice, bob := seat(t, f)

	f.orchestrator.BeginRound(room)
	f.clock.Advance(DefaultRoundTimeout)
	req.Len(queue.queue, 1)

	// A new round starts before the old continuation runs
	f.orchestrator.BeginRound(room)
	queue.flush()

	req.Empty(alice.closed)
	req.Empty(bob.closed)
	req.Equal(2, room.Round())
}

func TestOrchestrator_StalePauseAfterDestroyIsNoop(t *testing.T) {
	req := require.New(t)
	queue := &queueScheduler{}
	f := newFixture(t, queue, nil)
	room, alice, _ := seat(t, f)

	f.orchestrator.BeginRound(room)
	f.orchestrator.SubmitChoice(room, mustPlayer(t, room, "alice"), model.Rock)
	f.orchestrator.SubmitChoice(room, mustPlayer(t, room, "bob"), model.Paper)
	req.Equal(model.StateResult, room.State())

	f.clock.Advance(DefaultResultPause)
	req.Len(queue.queue, 1)
	f.directory.DestroyRoom(room.Code)
	alice.reset()
	queue.flush()

	req.Equal(model.StateResult, room.State())
	req.Equal(1, room.Round())
	req.Empty(alice.events)
}

func TestOrchestrator_BeginRoundNeedsTwoPlayers(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Inline, nil)
	room, err := f.directory.CreateRoom()
	req.NoError(err)
	req.NoError(room.AddPlayer(model.NewPlayer("solo", "Solo", "")))

	f.orchestrator.BeginRound(room)

	req.Equal(model.StateWaiting, room.State())
	req.Zero(f.clock.Pending())
}

func TestOrchestrator_BeginRoundReplacesDeadline(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Inline, nil)
	room, _, _ := seat(t, f)

	f.orchestrator.BeginRound(room)
	f.orchestrator.BeginRound(room)

	req.Equal(1, f.clock.Pending())
}

func TestOrchestrator_ErrorOutcomeDoesNotRecord(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, Inline, nil)
	room, alice, _ := seat(t, f)
	f.orchestrator.BeginRound(room)

	f.orchestrator.CompleteRound(room)

	evt, ok := alice.last(EventRoundResult)
	req.True(ok)
	req.Equal(model.ResultError, evt.Payload.(model.Outcome).Result)
	_, announced := alice.last(EventChatBroadcast)
	req.False(announced)

	// The room keeps going with a fresh round after the pause
	f.clock.Advance(DefaultResultPause)
	req.Equal(model.StatePlaying, room.State())
	req.Equal(2, room.Round())
}

func TestOrchestrator_SecondPlayerWinsAnnouncement(t *testing.T) {
	outcome := model.Outcome{
		Result:     model.ResultWin,
		WinnerID:   "b",
		WinnerName: "Bob",
		Choices: []model.PlayerChoice{
			{PlayerID: "a", Name: "Alice", Choice: model.Scissors},
			{PlayerID: "b", Name: "Bob", Choice: model.Rock},
		},
	}
	require.Equal(t, "🔥 Bob wins! (✊ beats ✌️)", announcement(outcome))
	require.Empty(t, announcement(model.Outcome{Result: model.ResultError}))
}

func TestNewOrchestrator_Defaults(t *testing.T) {
	req := require.New(t)
	clk := clock.NewFake(epoch)
	directory, err := NewDirectory(&DirectoryConfig{Clock: clk})
	req.NoError(err)

	o, err := NewOrchestrator(&OrchestratorConfig{
		Directory: directory,
		Registry:  NewRegistry(),
		Clock:     clk,
		Scheduler: Inline,
		Logger:    logs.GetLoggerFromLevel(slog.LevelDebug),
	})
	req.NoError(err)
	req.Equal(DefaultRoundTimeout, o.roundTimeout)
	req.Equal(DefaultResultPause, o.resultPause)

	_, err = NewOrchestrator(&OrchestratorConfig{
		RoundTimeout: -1,
		Directory:    directory,
		Registry:     NewRegistry(),
		Clock:        clk,
		Scheduler:    Inline,
		Logger:       logs.GetLoggerFromLevel(slog.LevelDebug),
	})
	req.ErrorIs(err, ErrInvalidTimeout)

	_, err = NewOrchestrator(&OrchestratorConfig{Directory: directory, Registry: NewRegistry(), Clock: clk})
	req.ErrorIs(err, ErrNilScheduler)
	_, err = NewOrchestrator(nil)
	req.ErrorIs(err, ErrNilConfig)
}

func mustPlayer(t *testing.T, room *model.Room, id string) *model.Player {
	p, ok := room.Player(id)
	require.True(t, ok)
	return p
}
