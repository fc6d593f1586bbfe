package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"rpsarena/internal/service"
)

// Connection is the service.Conn of one websocket client. Send and Close
// only touch channels, so they are safe from any goroutine and never block;
// the socket itself is owned by the pumps.
type Connection struct {
	id  string
	log *slog.Logger

	send    chan []byte
	closing chan string
	done    chan struct{}
	once    sync.Once
}

func newConnection(id string, bufferSize int, log *slog.Logger) *Connection {
	return &Connection{
		id:      id,
		log:     log,
		send:    make(chan []byte, bufferSize),
		closing: make(chan string, 1),
		done:    make(chan struct{}),
	}
}

func (c *Connection) ID() string { return c.id }

// Send queues evt for the write pump, dropping it if the buffer is full or
// the connection is gone
func (c *Connection) Send(evt service.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		c.log.Error("Failed to marshal event", "conn", c.id, "type", evt.Type, "error", err)
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("Send buffer full, event dropped", "conn", c.id, "type", evt.Type)
	}
}

// Close asks the write pump to flush pending events and close the socket
// with reason. Only the first reason is kept.
func (c *Connection) Close(reason string) {
	select {
	case c.closing <- reason:
	default:
	}
}

// shutdown marks the connection dead; later sends are discarded
func (c *Connection) shutdown() {
	c.once.Do(func() { close(c.done) })
}
