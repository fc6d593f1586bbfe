package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rpsarena/internal/cache"
	"rpsarena/internal/common/clock"
	"rpsarena/internal/common/uuid"
	"rpsarena/internal/config"
	"rpsarena/internal/repository"
	"rpsarena/internal/service"
	"rpsarena/internal/transport/rest"
	"rpsarena/internal/transport/rest/handler"
	"rpsarena/internal/transport/ws"
	"rpsarena/internal/worker"
)

const drainPollInterval = 20 * time.Millisecond

// Stores are the optional backing services. A nil field disables the
// feature that depends on it.
type Stores struct {
	Leaderboard cache.LeaderboardCache
	Matches     repository.MatchRepo
}

// App is the fully wired game server
type App struct {
	Hub       *ws.Hub
	Directory *service.Directory
	Registry  *service.Registry
	Lifecycle *service.Lifecycle
	Journal   *service.Journal
	Router    http.Handler

	cfg *config.Config
	log *slog.Logger
}

// New assembles the engine around a single hub loop
func New(cfg *config.Config, log *slog.Logger, clk clock.Clock, stores Stores) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if clk == nil {
		clk = clock.New()
	}

	hub := ws.NewHub(log, cfg.HubQueueSize)

	directory, err := service.NewDirectory(&service.DirectoryConfig{Clock: clk})
	if err != nil {
		return nil, err
	}
	registry := service.NewRegistry()

	var sinks []service.MatchSink
	if stores.Leaderboard != nil {
		sinks = append(sinks, stores.Leaderboard)
	}
	if stores.Matches != nil {
		sinks = append(sinks, stores.Matches)
	}
	journal := service.NewJournal(log, cfg.JournalBufferSize, cfg.JournalTimeout, sinks...)

	orchestrator, err := service.NewOrchestrator(&service.OrchestratorConfig{
		RoundTimeout: cfg.RoundTimeout,
		ResultPause:  cfg.ResultPause,
		Directory:    directory,
		Registry:     registry,
		Clock:        clk,
		Scheduler:    hub,
		Recorder:     journal,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	lifecycle, err := service.NewLifecycle(&service.LifecycleConfig{
		Directory:    directory,
		Registry:     registry,
		Orchestrator: orchestrator,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}
	hub.SetHandler(lifecycle)

	wsHandler, err := ws.NewHandler(&ws.HandlerConfig{
		Hub:            hub,
		UUID:           uuid.New(),
		AllowedOrigins: cfg.AllowedOrigins(),
		SendBuffer:     cfg.SendBufferSize,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}

	rooms, err := service.NewRoomQuery(hub, directory)
	if err != nil {
		return nil, err
	}

	container := &rest.Container{
		Rooms:          rooms,
		WS:             wsHandler,
		AllowedOrigins: cfg.AllowedOrigins(),
	}
	// Interfaces stay nil rather than typed nil when a store is disabled
	if stores.Leaderboard != nil {
		container.Leaderboard = stores.Leaderboard
	}
	if stores.Matches != nil {
		container.Matches = handler.MatchHistory(stores.Matches)
	}

	return &App{
		Hub:       hub,
		Directory: directory,
		Registry:  registry,
		Lifecycle: lifecycle,
		Journal:   journal,
		Router:    rest.NewRouter(container),
		cfg:       cfg,
		log:       log,
	}, nil
}

// Supervisor returns a supervisor running the hub and the journal
func (a *App) Supervisor() *worker.Supervisor {
	return worker.NewSupervisor(a.log, a.cfg.RestartInterval).Add(a.Hub, a.Journal)
}

// Shutdown cancels room timers, closes every client and waits until their
// disconnects have been processed, so close frames reach the wire before
// the workers stop. The hub must still be running.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Hub.Do(ctx, a.Lifecycle.Shutdown); err != nil {
		return err
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		var live int
		if err := a.Hub.Do(ctx, func() { live = a.Registry.Len() }); err != nil {
			return err
		}
		if live == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			a.log.Warn("Connections still open at shutdown", "connections", live)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
