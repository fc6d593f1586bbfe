package service

import (
	"fmt"
	"log/slog"
	"time"

	"rpsarena/internal/common/clock"
	"rpsarena/internal/model"
)

const (
	DefaultRoundTimeout = 30 * time.Second
	DefaultResultPause  = 3 * time.Second

	SystemSenderName   = "System"
	SystemSenderAvatar = "system"

	inactivityNotice = "You were removed for inactivity."
)

// OrchestratorConfig holds the dependencies of an Orchestrator
type OrchestratorConfig struct {
	RoundTimeout time.Duration
	ResultPause  time.Duration

	Directory *Directory
	Registry  *Registry
	Clock     clock.Clock
	// Scheduler marshals timer firings back onto the event loop
	Scheduler Scheduler
	// Recorder is optional
	Recorder Recorder
	Logger   *slog.Logger
}

// Orchestrator is the only component that schedules time-based events.
// Every method must run on the event loop.
type Orchestrator struct {
	roundTimeout time.Duration
	resultPause  time.Duration

	directory *Directory
	registry  *Registry
	clock     clock.Clock
	scheduler Scheduler
	recorder  Recorder
	log       *slog.Logger
}

func NewOrchestrator(cfg *OrchestratorConfig) (*Orchestrator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Directory == nil {
		return nil, ErrNilDirectory
	}
	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	o := &Orchestrator{
		roundTimeout: cfg.RoundTimeout,
		resultPause:  cfg.ResultPause,
		directory:    cfg.Directory,
		registry:     cfg.Registry,
		clock:        cfg.Clock,
		scheduler:    cfg.Scheduler,
		recorder:     cfg.Recorder,
		log:          cfg.Logger,
	}
	if o.roundTimeout == 0 {
		o.roundTimeout = DefaultRoundTimeout
	}
	if o.resultPause == 0 {
		o.resultPause = DefaultResultPause
	}
	if o.roundTimeout < 0 || o.resultPause < 0 {
		return nil, ErrInvalidTimeout
	}
	return o, nil
}

// BeginRound moves a full room into a fresh round, arms the inactivity
// deadline and broadcasts the new state. Rooms without two players are left
// alone.
func (o *Orchestrator) BeginRound(room *model.Room) {
	if !room.StartNewRound() {
		return
	}
	room.StopPause()

	round := room.Round()
	room.SetDeadline(o.clock.AfterFunc(o.roundTimeout, func() {
		o.scheduler.Post(func() { o.onDeadline(room, round) })
	}))

	o.log.Debug("Round started", "room", room.Code, "round", round)
	o.registry.Broadcast(room, Event{Type: EventGameUpdate, Payload: room.Snapshot()})
}

// onDeadline force-closes every player who has not chosen. Removal is left
// to the disconnect path the close triggers.
func (o *Orchestrator) onDeadline(room *model.Room, round int) {
	if !o.directory.IsCurrent(room) || room.Round() != round {
		return
	}
	if room.State() != model.StatePlaying || room.RoundComplete() {
		return
	}

	for _, p := range room.Pending() {
		o.log.Info("Closing inactive player", "room", room.Code, "player", p.ID, "round", round)
		s, ok := o.registry.Get(p.ID)
		if !ok {
			continue
		}
		s.Closing = true
		s.Conn.Send(errorEvent(inactivityNotice))
		s.Conn.Close(CloseReasonInactivity)
	}
}

// SubmitChoice records a choice and resolves the round once both are in.
// Off-phase, invalid or repeated submissions are ignored.
func (o *Orchestrator) SubmitChoice(room *model.Room, player *model.Player, choice model.Choice) bool {
	if !room.SubmitChoice(player.ID, choice) {
		return false
	}

	snapshot := room.Snapshot()
	snapshot.PlayerMadeChoice = player.Name
	o.registry.Broadcast(room, Event{Type: EventGameUpdate, Payload: snapshot})

	if room.RoundComplete() {
		o.CompleteRound(room)
	}
	return true
}

// CompleteRound resolves the current round, announces it and schedules the
// next one after the result pause
func (o *Orchestrator) CompleteRound(room *model.Room) {
	room.StopDeadline()

	outcome := room.ResolveRound()
	if outcome.Result == model.ResultError {
		o.log.Error("Round resolved without two choices", "room", room.Code, "round", outcome.Round)
	} else {
		o.log.Debug("Round resolved", "room", room.Code, "round", outcome.Round, "result", outcome.Result)
	}

	o.registry.Broadcast(room, Event{Type: EventRoundResult, Payload: outcome})
	if text := announcement(outcome); text != "" {
		o.registry.Broadcast(room, Event{Type: EventChatBroadcast, Payload: ChatBroadcastPayload{
			SenderName:   SystemSenderName,
			SenderAvatar: SystemSenderAvatar,
			Text:         text,
		}})
	}

	if o.recorder != nil && outcome.Result != model.ResultError {
		o.recorder.Record(model.NewMatch(outcome, room.Players(), o.clock.Now()))
	}

	round := room.Round()
	room.SetPause(o.clock.AfterFunc(o.resultPause, func() {
		o.scheduler.Post(func() { o.onPause(room, round) })
	}))
}

func (o *Orchestrator) onPause(room *model.Room, round int) {
	if !o.directory.IsCurrent(room) || room.Round() != round {
		return
	}
	if room.PlayerCount() != model.MaxPlayers {
		return
	}
	o.BeginRound(room)
}

func announcement(outcome model.Outcome) string {
	switch outcome.Result {
	case model.ResultDraw:
		return "The round ended in a draw!"
	case model.ResultWin:
		winner, ok := outcome.Winner()
		if !ok {
			return ""
		}
		loser, _ := outcome.Loser()
		return fmt.Sprintf("🔥 %s wins! (%s beats %s)", winner.Name, winner.Choice.Emoji(), loser.Choice.Emoji())
	}
	return ""
}
