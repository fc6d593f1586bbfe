package service

import (
	"log/slog"
	"testing"
	"time"

	"rpsarena/internal/common/clock"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// recordingConn captures everything the core sends to one client
type recordingConn struct {
	id     string
	events []Event
	closed []string
}

func newConn(id string) *recordingConn {
	return &recordingConn{id: id}
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Send(evt Event) { c.events = append(c.events, evt) }

func (c *recordingConn) Close(reason string) { c.closed = append(c.closed, reason) }

func (c *recordingConn) count(t EventType) int {
	n := 0
	for _, evt := range c.events {
		if evt.Type == t {
			n++
		}
	}
	return n
}

func (c *recordingConn) last(t EventType) (Event, bool) {
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == t {
			return c.events[i], true
		}
	}
	return Event{}, false
}

func (c *recordingConn) reset() { c.events = nil }

// queueScheduler holds posted work until flush, like a busy event loop
type queueScheduler struct {
	queue []func()
}

func (q *queueScheduler) Post(fn func()) { q.queue = append(q.queue, fn) }

func (q *queueScheduler) flush() {
	for len(q.queue) > 0 {
		fn := q.queue[0]
		q.queue = q.queue[1:]
		fn()
	}
}

type fixture struct {
	clock        *clock.Fake
	directory    *Directory
	registry     *Registry
	orchestrator *Orchestrator
	lifecycle    *Lifecycle
}

func newFixture(t *testing.T, scheduler Scheduler, recorder Recorder) *fixture {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	clk := clock.NewFake(epoch)

	directory, err := NewDirectory(&DirectoryConfig{Clock: clk})
	req.NoError(err)
	registry := NewRegistry()
	orchestrator, err := NewOrchestrator(&OrchestratorConfig{
		RoundTimeout: DefaultRoundTimeout,
		ResultPause:  DefaultResultPause,
		Directory:    directory,
		Registry:     registry,
		Clock:        clk,
		Scheduler:    scheduler,
		Recorder:     recorder,
		Logger:       log,
	})
	req.NoError(err)
	lifecycle, err := NewLifecycle(&LifecycleConfig{
		Directory:    directory,
		Registry:     registry,
		Orchestrator: orchestrator,
		Logger:       log,
	})
	req.NoError(err)

	return &fixture{
		clock:        clk,
		directory:    directory,
		registry:     registry,
		orchestrator: orchestrator,
		lifecycle:    lifecycle,
	}
}

func (f *fixture) connect(id string) *recordingConn {
	conn := newConn(id)
	f.lifecycle.Connect(conn)
	return conn
}

func (f *fixture) create(conn *recordingConn, name string) string {
	f.lifecycle.Handle(conn, Inbound{Type: EventCreateRoom, Payload: CreateRoomPayload{Name: name, Avatar: "🦊"}})
	evt, ok := conn.last(EventRoomCreated)
	if !ok {
		return ""
	}
	return evt.Payload.(RoomCreatedPayload).RoomCode
}

func (f *fixture) join(conn *recordingConn, code, name string) {
	f.lifecycle.Handle(conn, Inbound{Type: EventJoinRoom, Payload: JoinRoomPayload{RoomCode: code, Name: name, Avatar: "🐻"}})
}

func (f *fixture) choose(conn *recordingConn, choice string) {
	f.lifecycle.Handle(conn, Inbound{Type: EventPlayerChoice, Payload: ChoicePayload{Choice: choice}})
}

func errorText(evt Event) string {
	return evt.Payload.(ErrorPayload).Message
}
