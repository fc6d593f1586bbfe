package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"rpsarena/internal/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWorker(ctrl)

	var calls atomic.Int32
	w.EXPECT().GetName().Return("boom").AnyTimes()
	w.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		calls.Add(1)
		panic("boom")
	}).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	NewSupervisor(slog.Default(), 10*time.Millisecond).Add(w).Run(ctx)

	req.GreaterOrEqual(calls.Load(), int32(2))
}

func TestSupervisor_RestartOnError(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWorker(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	w.EXPECT().GetName().Return("flaky").AnyTimes()
	w.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}).Times(3)

	done := make(chan struct{})
	go func() {
		NewSupervisor(slog.Default(), time.Millisecond).Add(w).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("supervisor should stop once the worker succeeds")
	}
	req.Equal(int32(3), calls.Load())
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWorker(ctrl)

	w.EXPECT().GetName().Return("once").AnyTimes()
	w.EXPECT().Run(gomock.Any()).Return(nil).Times(1)

	done := make(chan struct{})
	go func() {
		NewSupervisor(slog.Default(), 0).Add(w).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		req.Fail("supervisor should have stopped after worker success")
	}
}

func TestSupervisor_StopOnCancel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWorker(ctrl)

	started := make(chan struct{})
	w.EXPECT().GetName().Return("loop").AnyTimes()
	w.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSupervisor(slog.Default(), 0).Add(w).Run(ctx)
		close(done)
	}()

	<-started
	cancel()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		req.Fail("supervisor should stop when the context is canceled")
	}
}
