package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls    atomic.Int32
	running  atomic.Int32
	overlaps atomic.Int32
	hold     time.Duration
	deadline atomic.Bool
	done     chan struct{}
}

func (r *countingRefresher) Refresh(ctx context.Context) error {
	if r.running.Add(1) > 1 {
		r.overlaps.Add(1)
	}
	defer r.running.Add(-1)

	if _, ok := ctx.Deadline(); ok {
		r.deadline.Store(true)
	}
	time.Sleep(r.hold)
	if r.calls.Add(1) == 1 {
		close(r.done)
	}
	return errors.New("source unavailable")
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSchedulerRunsImmediately(t *testing.T) {
	r := &countingRefresher{done: make(chan struct{})}
	s := New(r, time.Hour, time.Minute, quiet)

	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("first refresh did not run")
	}
	assert.True(t, r.deadline.Load(), "cycle runs with a timeout")
}

func TestSchedulerDoesNotOverlap(t *testing.T) {
	r := &countingRefresher{done: make(chan struct{}), hold: 1500 * time.Millisecond}
	s := New(r, time.Second, 0, quiet)

	require.NoError(t, s.Start())
	time.Sleep(3500 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, r.calls.Load(), int32(1))
	assert.Zero(t, r.overlaps.Load())
}

func TestSchedulerDefaults(t *testing.T) {
	s := New(nil, 0, 0, nil)
	assert.Equal(t, DefaultInterval, s.interval)
	assert.Error(t, s.Start())
}
