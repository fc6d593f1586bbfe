package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rpsarena/internal/cache"
	"rpsarena/internal/config"
	"rpsarena/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               8080,
		RoundTimeout:       5 * time.Second,
		ResultPause:        50 * time.Millisecond,
		SendBufferSize:     64,
		HubQueueSize:       64,
		JournalBufferSize:  16,
		JournalTimeout:     time.Second,
		RestartInterval:    10 * time.Millisecond,
		CORSAllowedOrigins: "*",
	}
}

// start runs the app's workers and serves its router until the test ends
func start(t *testing.T, stores Stores) (*App, *httptest.Server) {
	req := require.New(t)
	a, err := New(testConfig(), logs.GetLoggerFromLevel(slog.LevelDebug), nil, stores)
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		a.Supervisor().Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-stopped
	})
	return a, srv
}

type frame struct {
	Type    service.EventType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, eventType service.EventType, payload interface{}) {
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": eventType, "payload": payload}))
}

func await(t *testing.T, conn *websocket.Conn, eventType service.EventType, into interface{}) {
	for {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f frame
		require.NoError(t, conn.ReadJSON(&f), "waiting for %s", eventType)
		if f.Type != eventType {
			continue
		}
		if into != nil {
			require.NoError(t, json.Unmarshal(f.Payload, into))
		}
		return
	}
}

func pair(t *testing.T, srv *httptest.Server) (alice, bob *websocket.Conn) {
	alice, bob = dial(t, srv), dial(t, srv)
	send(t, alice, service.EventCreateRoom, service.CreateRoomPayload{Name: "Alice"})
	var created service.RoomCreatedPayload
	await(t, alice, service.EventRoomCreated, &created)
	send(t, bob, service.EventJoinRoom, service.JoinRoomPayload{RoomCode: created.RoomCode, Name: "Bob"})
	await(t, bob, service.EventJoinSuccess, nil)
	await(t, alice, service.EventPlayerJoined, nil)
	return alice, bob
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, slog.Default(), nil, Stores{})
	require.Error(t, err)
	_, err = New(testConfig(), nil, nil, Stores{})
	require.Error(t, err)
}

func TestApp_DisabledStores(t *testing.T) {
	req := require.New(t)
	_, srv := start(t, Stores{})

	for path, status := range map[string]int{
		"/health":         http.StatusOK,
		"/v1/rooms":       http.StatusOK,
		"/v1/leaderboard": http.StatusServiceUnavailable,
		"/v1/matches":     http.StatusServiceUnavailable,
	} {
		resp, err := http.Get(srv.URL + path)
		req.NoError(err)
		resp.Body.Close()
		req.Equal(status, resp.StatusCode, path)
	}
}

func TestApp_RoundReachesLeaderboard(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	leaderboard, err := cache.NewLeaderboardCache(client)
	req.NoError(err)

	_, srv := start(t, Stores{Leaderboard: leaderboard})
	alice, bob := pair(t, srv)

	send(t, alice, service.EventPlayerChoice, service.ChoicePayload{Choice: "paper"})
	send(t, bob, service.EventPlayerChoice, service.ChoicePayload{Choice: "rock"})
	await(t, alice, service.EventRoundResult, nil)

	// The journal writes asynchronously
	req.Eventually(func() bool {
		entries, err := leaderboard.Top(context.Background(), 10)
		return err == nil && len(entries) == 2 && entries[0].Name == "Alice" && entries[0].Wins == 1
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(srv.URL + "/v1/leaderboard?top=1")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
	var body struct {
		Entries []cache.LeaderboardEntry `json:"entries"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Len(body.Entries, 1)
	req.Equal("Alice", body.Entries[0].Name)
}

func TestApp_ShutdownClosesClients(t *testing.T) {
	req := require.New(t)
	a, srv := start(t, Stores{})
	alice, _ := pair(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req.NoError(a.Shutdown(ctx))

	// Shutdown only returns once every client has been let go
	var live, rooms int
	req.NoError(a.Hub.Do(context.Background(), func() {
		live, rooms = a.Registry.Len(), a.Directory.Len()
	}))
	req.Zero(live)
	req.Zero(rooms)

	for {
		alice.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := alice.ReadMessage()
		if err == nil {
			continue
		}
		var closeErr *websocket.CloseError
		req.True(errors.As(err, &closeErr), "unexpected error: %v", err)
		req.Equal(websocket.CloseNormalClosure, closeErr.Code)
		req.Equal(service.CloseReasonShutdown, closeErr.Text)
		break
	}
}
