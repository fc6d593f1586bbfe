package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"rpsarena/internal/service"
)

// ErrHubStopped is returned to callers waiting on a hub that has shut down
var ErrHubStopped = errors.New("hub stopped")

const defaultQueueSize = 1024

// Handler is the application side of the hub. All of its methods are invoked
// from the hub's run loop, one at a time.
type Handler interface {
	Connect(conn service.Conn)
	Handle(conn service.Conn, in service.Inbound)
	Disconnect(conn service.Conn)
}

// Hub is the single event loop owning all room state. Connection events,
// timer continuations and read-only queries are queued on one channel and
// executed to completion in arrival order.
type Hub struct {
	log     *slog.Logger
	handler Handler
	tasks   chan func()

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub; call SetHandler before Run
func NewHub(log *slog.Logger, queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Hub{
		log:   log,
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// SetHandler wires the application handler. The handler usually depends on
// the hub as its scheduler, hence the two-step construction.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

func (h *Hub) GetName() string { return "hub" }

// Run executes queued work until ctx is done
func (h *Hub) Run(ctx context.Context) error {
	defer h.stopOnce.Do(func() { close(h.done) })
	h.log.Info("Hub started")
	for {
		select {
		case task := <-h.tasks:
			h.execute(task)
		case <-ctx.Done():
			h.log.Info("Hub stopped")
			return nil
		}
	}
}

// execute runs one unit of work; a panic is logged and the loop carries on
func (h *Hub) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Recovered from panic in hub task", "panic", r)
		}
	}()
	task()
}

// Post queues fn on the loop. It implements service.Scheduler and is safe
// to call from any goroutine; work posted after shutdown is discarded.
func (h *Hub) Post(fn func()) {
	select {
	case h.tasks <- fn:
	case <-h.done:
	}
}

// Do runs fn on the loop and waits for it to complete
func (h *Hub) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case h.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// Register announces a new connection
func (h *Hub) Register(conn service.Conn) {
	h.Post(func() { h.handler.Connect(conn) })
}

// Unregister reports a lost connection
func (h *Hub) Unregister(conn service.Conn) {
	h.Post(func() { h.handler.Disconnect(conn) })
}

// Dispatch queues a decoded inbound event
func (h *Hub) Dispatch(conn service.Conn, in service.Inbound) {
	h.Post(func() { h.handler.Handle(conn, in) })
}
