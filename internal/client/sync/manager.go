package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultSyncInterval = 30 * time.Second

// AttemptRunner runs one sync attempt. Implemented by Orchestrator.
type AttemptRunner interface {
	RunSync(ctx context.Context) (*Result, error)
}

// Manager schedules sync attempts: one at startup, one per interval, and one
// per snapshot write observed by the watcher. Concurrent triggers collapse
// into a single in-flight attempt.
type Manager struct {
	runner   AttemptRunner
	watcher  *SnapshotWatcher
	interval time.Duration
	sf       singleflight.Group
	wg       sync.WaitGroup
}

func NewManager(runner AttemptRunner, watcher *SnapshotWatcher, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Manager{
		runner:   runner,
		watcher:  watcher,
		interval: interval,
	}
}

func (m *Manager) Start(ctx context.Context) error {
	slog.Info("sync manager start", "interval", m.interval)

	// run once before the loops so the first cycle doesn't wait an interval
	m.RequestSync(ctx)

	if m.watcher != nil {
		if err := m.watcher.Start(ctx); err != nil {
			return err
		}

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.handleWatcherEvents(ctx)
		}()
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// a timer, not a ticker, so a slow attempt doesn't queue ticks
		timer := time.NewTimer(m.interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				m.RequestSync(ctx)
				timer.Reset(m.interval)
			}
		}
	}()

	return nil
}

func (m *Manager) Stop() {
	slog.Info("sync manager stop")
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.wg.Wait()
}

// RequestSync runs one attempt, sharing the flight with any concurrent
// request. Failures are logged, never fatal to the manager: retry cadence is
// the loop's job.
func (m *Manager) RequestSync(ctx context.Context) {
	tstart := time.Now()
	v, err, shared := m.sf.Do("attempt", func() (any, error) {
		return m.runner.RunSync(ctx)
	})
	if shared {
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, ErrSyncAlreadyRunning):
			slog.Debug("sync attempt dropped, another in flight")
		case IsRetryable(err):
			slog.Warn("sync attempt failed, will retry next cycle", "error", err)
		default:
			slog.Error("sync attempt failed", "error", err)
		}
		return
	}

	res := v.(*Result)
	if res.Outcome != InSync {
		slog.Info("sync attempt", "id", res.AttemptID, "outcome", res.Outcome,
			"uploaded", res.Uploaded, "downloaded", res.Downloaded, "took", time.Since(tstart))
	}
}

func (m *Manager) handleWatcherEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-m.watcher.Events():
			if !ok {
				return
			}
			m.RequestSync(ctx)
		}
	}
}
