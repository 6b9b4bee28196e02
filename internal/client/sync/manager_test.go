package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	calls   atomic.Int64
	err     error
	blockOn chan struct{}
}

func (s *stubRunner) RunSync(ctx context.Context) (*Result, error) {
	s.calls.Add(1)
	if s.blockOn != nil {
		<-s.blockOn
	}
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Outcome: InSync}, nil
}

func TestNewManagerDefaultInterval(t *testing.T) {
	m := NewManager(&stubRunner{}, nil, 0)
	assert.Equal(t, DefaultSyncInterval, m.interval)

	m = NewManager(&stubRunner{}, nil, -time.Second)
	assert.Equal(t, DefaultSyncInterval, m.interval)

	m = NewManager(&stubRunner{}, nil, 5*time.Second)
	assert.Equal(t, 5*time.Second, m.interval)
}

func TestRequestSyncCoalescesConcurrentTriggers(t *testing.T) {
	gate := make(chan struct{})
	runner := &stubRunner{blockOn: gate}
	m := NewManager(runner, nil, time.Minute)

	const triggers = 8
	done := make(chan struct{}, triggers)
	for i := 0; i < triggers; i++ {
		go func() {
			m.RequestSync(context.Background())
			done <- struct{}{}
		}()
	}

	// let the triggers pile onto the shared flight before releasing it
	require.Eventually(t, func() bool {
		return runner.calls.Load() == 1
	}, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	close(gate)
	for i := 0; i < triggers; i++ {
		<-done
	}

	assert.Equal(t, int64(1), runner.calls.Load(), "concurrent triggers must share one attempt")
}

func TestRequestSyncSwallowsErrors(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	m := NewManager(runner, nil, time.Minute)

	m.RequestSync(context.Background())
	m.RequestSync(context.Background())

	assert.Equal(t, int64(2), runner.calls.Load())
}

func TestManagerRunsOnStartAndOnInterval(t *testing.T) {
	runner := &stubRunner{}
	m := NewManager(runner, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))

	// one immediate attempt plus at least one interval tick
	require.Eventually(t, func() bool {
		return runner.calls.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()
	m.Stop()
}
