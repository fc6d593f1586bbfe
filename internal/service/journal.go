//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=../mocks/mock_journal.go -package=mocks

package service

import (
	"context"
	"log/slog"
	"time"

	"rpsarena/internal/model"
)

const (
	DefaultJournalBuffer  = 128
	DefaultJournalTimeout = 2 * time.Second
)

// Recorder accepts resolved rounds for best-effort persistence
type Recorder interface {
	Record(match *model.Match)
}

// MatchSink persists a resolved round
type MatchSink interface {
	SaveMatch(ctx context.Context, match *model.Match) error
}

// Journal hands resolved rounds from the event loop to the configured
// sinks. Delivery is best effort: a full buffer drops the match and sink
// failures are only logged.
type Journal struct {
	log     *slog.Logger
	matches chan *model.Match
	sinks   []MatchSink
	timeout time.Duration
}

func NewJournal(log *slog.Logger, bufferSize int, timeout time.Duration, sinks ...MatchSink) *Journal {
	if bufferSize <= 0 {
		bufferSize = DefaultJournalBuffer
	}
	if timeout <= 0 {
		timeout = DefaultJournalTimeout
	}
	return &Journal{
		log:     log,
		matches: make(chan *model.Match, bufferSize),
		sinks:   sinks,
		timeout: timeout,
	}
}

// Record enqueues match without blocking
func (j *Journal) Record(match *model.Match) {
	select {
	case j.matches <- match:
	default:
		j.log.Warn("Journal buffer full, match dropped", "room", match.RoomCode, "round", match.Round)
	}
}

func (j *Journal) GetName() string { return "journal" }

// Run drains recorded matches until ctx is done
func (j *Journal) Run(ctx context.Context) error {
	for {
		select {
		case match := <-j.matches:
			j.save(ctx, match)
		case <-ctx.Done():
			j.log.Debug("Context done, stopping journal")
			return nil
		}
	}
}

func (j *Journal) save(ctx context.Context, match *model.Match) {
	for _, sink := range j.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, j.timeout)
		if err := sink.SaveMatch(sinkCtx, match); err != nil {
			j.log.Warn("Failed to save match", "room", match.RoomCode, "round", match.Round, "error", err)
		}
		cancel()
	}
}
