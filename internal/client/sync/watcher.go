package sync

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/rjeczalik/notify"
)

// SnapshotWatcher reports writes to the vault snapshot file. It watches the
// parent directory rather than the file itself because imports replace the
// file by rename, which would break a watch on the file node.
type SnapshotWatcher struct {
	snapshotPath string
	raw          chan notify.EventInfo
	events       chan struct{}
}

func NewSnapshotWatcher(snapshotPath string) *SnapshotWatcher {
	return &SnapshotWatcher{
		snapshotPath: snapshotPath,
		raw:          make(chan notify.EventInfo, 8),
		events:       make(chan struct{}, 1),
	}
}

func (w *SnapshotWatcher) Start(ctx context.Context) error {
	slog.Info("snapshot watcher start", "path", w.snapshotPath)

	watchDir := filepath.Dir(w.snapshotPath)
	if err := notify.Watch(watchDir, w.raw, notify.Write, notify.Rename, notify.Create); err != nil {
		return err
	}

	go w.filterLoop(ctx)
	return nil
}

func (w *SnapshotWatcher) Stop() {
	notify.Stop(w.raw)
	close(w.raw)
	slog.Info("snapshot watcher stop")
}

// Events signals once per observed change to the snapshot file. The channel
// holds at most one pending signal; bursts coalesce.
func (w *SnapshotWatcher) Events() <-chan struct{} {
	return w.events
}

func (w *SnapshotWatcher) filterLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.raw:
			if !ok {
				return
			}
			if filepath.Base(ev.Path()) != filepath.Base(w.snapshotPath) {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		}
	}
}
