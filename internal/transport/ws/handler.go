package ws

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rpsarena/internal/common/uuid"
	"rpsarena/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	defaultSendBuffer = 256
)

// HandlerConfig holds the dependencies of the websocket endpoint
type HandlerConfig struct {
	Hub  *Hub
	UUID uuid.UUID
	// AllowedOrigins lists accepted Origin headers; "*" or empty allows all
	AllowedOrigins []string
	SendBuffer     int
	Logger         *slog.Logger
}

// WSHandler upgrades HTTP requests and runs one read and one write pump per
// client
type WSHandler struct {
	hub        *Hub
	uuid       uuid.UUID
	upgrader   websocket.Upgrader
	sendBuffer int
	log        *slog.Logger
}

func NewHandler(cfg *HandlerConfig) (*WSHandler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}
	if cfg.UUID == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &WSHandler{
		hub:  cfg.Hub,
		uuid: cfg.UUID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
		},
		sendBuffer: sendBuffer,
		log:        cfg.Logger,
	}, nil
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP handles GET /v1/ws
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade error", "error", err)
		return
	}

	conn := newConnection(h.uuid.NewUUID(), h.sendBuffer, h.log)
	h.hub.Register(conn)
	h.log.Debug("Client connected", "conn", conn.ID(), "remote", r.RemoteAddr)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *WSHandler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		conn.shutdown()
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.log.Debug("WebSocket read error", "conn", conn.ID(), "error", err)
			}
			return
		}

		in, err := decodeInbound(data)
		if err != nil {
			h.log.Debug("Rejected inbound frame", "conn", conn.ID(), "error", err)
			conn.Send(service.Event{Type: service.EventError, Payload: service.ErrorPayload{Message: decodeErrorMessage(err)}})
			continue
		}
		h.hub.Dispatch(conn, in)
	}
}

func (h *WSHandler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message := <-conn.send:
			if err := write(wsConn, message); err != nil {
				return
			}

		case reason := <-conn.closing:
			// Flush what the loop queued before asking us to close
			for drained := false; !drained; {
				select {
				case message := <-conn.send:
					if err := write(wsConn, message); err != nil {
						return
					}
				default:
					drained = true
				}
			}
			h.log.Debug("Closing connection", "conn", conn.ID(), "reason", reason)
			wsConn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
				time.Now().Add(writeWait))
			return

		case <-conn.done:
			return

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func write(wsConn *websocket.Conn, message []byte) error {
	wsConn.SetWriteDeadline(time.Now().Add(writeWait))
	w, err := wsConn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(message)
	return w.Close()
}
