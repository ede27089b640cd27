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

type countingProcessor struct {
	calls atomic.Int32
	err   error
}

func (p *countingProcessor) ProcessScheduledTweets(context.Context) (int, error) {
	p.calls.Add(1)
	return 1, p.err
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestScheduler_RunsImmediately(t *testing.T) {
	p := &countingProcessor{}
	s := New(p, "@every 1h", discard)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	// Second start is a no-op
	require.NoError(t, s.Start(context.Background()))
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	p := &countingProcessor{err: errors.New("boom")}
	s := New(p, "@every 1s", discard)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(&countingProcessor{}, "every minute", discard)
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_CanceledContext(t *testing.T) {
	p := &countingProcessor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(p, "@every 1h", discard)
	require.NoError(t, s.Start(ctx))
	s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, p.calls.Load())
}

// slowProcessor blocks each pass until release is closed and records the
// highest number of passes seen at once
type slowProcessor struct {
	started  chan struct{}
	release  chan struct{}
	active   atomic.Int32
	peak     atomic.Int32
	finished atomic.Bool
}

func newSlowProcessor() *slowProcessor {
	return &slowProcessor{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (p *slowProcessor) ProcessScheduledTweets(context.Context) (int, error) {
	n := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	p.started <- struct{}{}

	<-p.release
	p.active.Add(-1)
	p.finished.Store(true)
	return 0, nil
}

func TestScheduler_StopWaitsForStartupPass(t *testing.T) {
	p := newSlowProcessor()
	s := New(p, "@every 1h", discard)
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-p.started:
	case <-time.After(time.Second):
		t.Fatal("startup pass did not run")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the startup pass was in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(p.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the pass finished")
	}
	assert.True(t, p.finished.Load())
}

func TestScheduler_StartupPassAndTickDoNotOverlap(t *testing.T) {
	p := newSlowProcessor()
	s := New(p, "@every 1s", discard)
	require.NoError(t, s.Start(context.Background()))

	<-p.started
	// Keep the startup pass busy across the first tick
	time.Sleep(1500 * time.Millisecond)
	close(p.release)
	s.Stop()

	assert.Equal(t, int32(1), p.peak.Load())
}
