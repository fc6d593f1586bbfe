package service

// CloseReasonInactivity is the normalized reason used when a player is
// force-closed for missing the round deadline
const CloseReasonInactivity = "inactivity"

// CloseReasonShutdown is sent to every client when the server stops
const CloseReasonShutdown = "server shutting down"

// Conn is the capability a transport hands to the core for one client.
// Send never blocks and never reports failure: an event that cannot be
// delivered is dropped, and a broken link surfaces later as a disconnect.
type Conn interface {
	ID() string
	Send(evt Event)
	Close(reason string)
}

// Scheduler runs fn on the event loop that owns room state
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Post(fn func()) { f(fn) }

// Inline runs posted work immediately on the caller's goroutine
var Inline = SchedulerFunc(func(fn func()) { fn() })
