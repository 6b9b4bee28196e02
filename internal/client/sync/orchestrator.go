package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openvault/vaultsync/internal/client/datastore"
)

// Orchestrator drives one sync attempt end to end: fast-path checks, remote
// fetch, decision dispatch, transfer, and bookkeeping persistence. At most
// one attempt is in flight at a time; a request arriving while one is active
// is dropped with ErrSyncAlreadyRunning.
type Orchestrator struct {
	remote  RemoteStore
	local   LocalState
	data    DataStore
	arbiter ConflictArbiter
	ready   func() error
	muSync  sync.Mutex
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithReadyCheck installs the capability gate evaluated at the start of each
// attempt. A non-nil error fails the attempt fast with ErrNotReady.
func WithReadyCheck(ready func() error) OrchestratorOption {
	return func(o *Orchestrator) {
		o.ready = ready
	}
}

func NewOrchestrator(remote RemoteStore, local LocalState, data DataStore, arbiter ConflictArbiter, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		remote:  remote,
		local:   local,
		data:    data,
		arbiter: arbiter,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunSync performs a single sync attempt. Terminal on the first matching
// branch; every error aborts the attempt before any bookkeeping write, so a
// crash or cancellation leaves bookkeeping consistent with the last completed
// transfer.
func (o *Orchestrator) RunSync(ctx context.Context) (*Result, error) {
	if !o.muSync.TryLock() {
		return nil, ErrSyncAlreadyRunning
	}
	defer o.muSync.Unlock()

	res := &Result{AttemptID: uuid.NewString()}

	// recorded unconditionally, even when the gate fails below
	if err := o.local.MarkAttemptObserved(time.Now()); err != nil {
		return nil, fmt.Errorf("mark attempt: %w", err)
	}

	if o.ready != nil {
		if err := o.ready(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotReady, err)
		}
	}

	// bookkeeping and local snapshot reads happen before any network call
	lastSync, err := o.local.LastSyncTime()
	if err != nil {
		return nil, fmt.Errorf("read last sync time: %w", err)
	}
	cachedRev, err := o.local.Revision()
	if err != nil {
		return nil, fmt.Errorf("read revision: %w", err)
	}
	snap, err := o.data.ReadCurrentSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read local snapshot: %w", err)
	}
	localChange := snap.ChangedAt

	meta, err := o.remote.FetchMetadata(ctx)
	if err != nil {
		return nil, &TransportError{Op: "fetch metadata", Err: err}
	}

	// An empty cached token proves nothing: it is only set after a completed
	// upload or import.
	tokenUnchanged := cachedRev != "" && cachedRev == meta.Revision

	// Revision fast path: token unchanged and local unchanged since the last
	// sync means neither side moved. Zero transfer.
	if tokenUnchanged && localChange.Equal(lastSync) {
		res.Outcome = InSync
		slog.Debug("sync attempt", "id", res.AttemptID, "outcome", res.Outcome, "path", "revision-fast")
		return res, nil
	}

	// Upload fast path: the token proves the remote copy is exactly what we
	// synced against last time, and only local moved since. Downloading would
	// be redundant.
	if tokenUnchanged && localChange.After(lastSync) && SameInstant(lastSync, meta.LastModified) {
		res.Outcome = RemoteUpdateRequired
		slog.Debug("sync attempt", "id", res.AttemptID, "outcome", res.Outcome, "path", "upload-fast")
		return o.pushLocal(ctx, res, snap)
	}

	// General path: the transport-level modified time is too coarse to decide
	// on. Download the snapshot to read its own change marker.
	remoteSnap, rev, err := o.remote.Download(ctx, meta.Revision)
	if err != nil {
		return nil, &TransportError{Op: "download", Err: err}
	}
	res.Downloaded = true

	point := SyncPoint{
		Local:    localChange,
		Remote:   remoteSnap.ChangedAt,
		LastSync: lastSync,
	}
	res.Outcome = Decide(point)
	slog.Debug("sync attempt", "id", res.AttemptID, "outcome", res.Outcome,
		"local", point.Local, "remote", point.Remote, "lastSync", point.LastSync)

	switch res.Outcome {
	case InSync:
		return res, nil

	case SyncPointStale:
		// A deleted local snapshot reads as a zero change marker and lands
		// here when the remote has not moved past the old marker. Writing the
		// zero marker would be rejected and every later attempt would repeat
		// it, so restore the local copy from the remote instead.
		if localChange.IsZero() {
			if remoteSnap.ChangedAt.IsZero() {
				slog.Warn("local snapshot missing and remote empty, leaving bookkeeping unchanged", "id", res.AttemptID)
				return res, nil
			}
			res.Outcome = LocalUpdateRequired
			return o.pullRemote(ctx, res, remoteSnap, rev)
		}
		// repair bookkeeping without moving data
		if err := o.local.SetLastSyncTime(localChange); err != nil {
			return nil, fmt.Errorf("repair last sync time: %w", err)
		}
		return res, nil

	case RemoteUpdateRequired:
		return o.pushLocal(ctx, res, snap)

	case LocalUpdateRequired:
		return o.pullRemote(ctx, res, remoteSnap, rev)

	case Diverged:
		resolution, err := o.arbiter.Resolve(ctx, point.Local, point.Remote, point.LastSync)
		if err != nil {
			return nil, fmt.Errorf("arbiter: %w", err)
		}
		res.Resolution = resolution
		switch resolution {
		case ResolveUpdateRemote:
			return o.pushLocal(ctx, res, snap)
		case ResolveUpdateLocal:
			return o.pullRemote(ctx, res, remoteSnap, rev)
		default:
			// deferred: bookkeeping untouched, divergence resurfaces on the
			// next attempt
			return res, nil
		}
	}

	return res, nil
}

// pushLocal uploads the local snapshot and records the new revision paired
// with the snapshot's own change time.
func (o *Orchestrator) pushLocal(ctx context.Context, res *Result, snap *datastore.Snapshot) (*Result, error) {
	rev, err := o.remote.Upload(ctx, snap, snap.ChangedAt)
	if err != nil {
		return nil, &TransportError{Op: "upload", Err: err}
	}
	if rev == "" {
		return nil, ErrMissingRevision
	}
	if err := o.local.SetSynced(rev, snap.ChangedAt); err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}
	res.Uploaded = true
	res.Revision = rev
	return res, nil
}

// pullRemote imports the downloaded snapshot and records its revision paired
// with the snapshot's change time. The token must be resolved before the
// import begins: bookkeeping never records an import without it.
func (o *Orchestrator) pullRemote(ctx context.Context, res *Result, remoteSnap *datastore.Snapshot, rev string) (*Result, error) {
	if rev == "" {
		meta, err := o.remote.FetchMetadata(ctx)
		if err != nil {
			return nil, &TransportError{Op: "fetch metadata", Err: err}
		}
		rev = meta.Revision
	}
	if rev == "" {
		return nil, ErrMissingRevision
	}
	if err := o.data.ImportSnapshot(ctx, remoteSnap); err != nil {
		return nil, fmt.Errorf("import snapshot: %w", err)
	}
	if err := o.local.SetSynced(rev, remoteSnap.ChangedAt); err != nil {
		return nil, fmt.Errorf("record import: %w", err)
	}
	res.Downloaded = true
	res.Revision = rev
	return res, nil
}
