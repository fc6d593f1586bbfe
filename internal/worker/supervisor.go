//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=supervisor.go -destination=../mocks/mock_worker.go -package=mocks

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrWorkerPanic replaces a recovered panic so it can be logged as an error
var ErrWorkerPanic = errors.New("worker panicked")

const defaultRestartInterval = 200 * time.Millisecond

// Worker is a long-running loop owned by the supervisor
type Worker interface {
	GetName() string
	Run(ctx context.Context) error
}

// Supervisor runs each worker in its own goroutine and restarts it after a
// panic or an error. A worker returning nil is considered finished.
type Supervisor struct {
	log             *slog.Logger
	restartInterval time.Duration
	workers         []Worker
	wg              sync.WaitGroup
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	if restartInterval <= 0 {
		restartInterval = defaultRestartInterval
	}
	return &Supervisor{log: log, restartInterval: restartInterval}
}

func (s *Supervisor) Add(workers ...Worker) *Supervisor {
	s.workers = append(s.workers, workers...)
	return s
}

// Run blocks until every worker has stopped
func (s *Supervisor) Run(ctx context.Context) {
	for _, w := range s.workers {
		s.start(ctx, w)
	}
	s.wg.Wait()
}

func (s *Supervisor) start(ctx context.Context, w Worker) {
	s.wg.Add(1)
	name := w.GetName()

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("Stopping worker", "name", name)
				return
			}

			err := s.runOnce(ctx, w)
			if err == nil {
				s.log.Info("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

func (s *Supervisor) runOnce(ctx context.Context, w Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Recovered from worker panic", "name", w.GetName(), "panic", r)
			err = ErrWorkerPanic
		}
	}()
	return w.Run(ctx)
}
