package sync

import (
	"context"
	"time"

	"github.com/openvault/vaultsync/internal/client/datastore"
)

// RemoteMetadata is the transport-level view of the remote copy. Revision is
// an opaque token that changes iff the remote content changed; LastModified
// carries second resolution.
type RemoteMetadata struct {
	Revision     string
	LastModified time.Time
}

// RemoteStore is the transport capability the orchestrator consumes.
// Implementations own authentication, wire format and retries; the
// orchestrator treats every failure as retryable on a future attempt.
type RemoteStore interface {
	// FetchMetadata returns the current revision token and modified time of
	// the remote copy. A remote copy that does not exist yet is reported as
	// zero metadata, not as an error.
	FetchMetadata(ctx context.Context) (*RemoteMetadata, error)

	// Download fetches the full remote snapshot along with the revision
	// token it was served at. knownRevision is a hint for the transport; the
	// returned token is authoritative.
	Download(ctx context.Context, knownRevision string) (*datastore.Snapshot, string, error)

	// Upload replaces the remote copy with snap and returns the newly issued
	// revision token. clientModified is the snapshot's own change time.
	Upload(ctx context.Context, snap *datastore.Snapshot, clientModified time.Time) (string, error)
}

// LocalState is the persisted bookkeeping capability. The revision token and
// last-sync time are only ever written together (SetSynced), immediately
// after a completed transfer, so they are never independently stale.
type LocalState interface {
	// Revision returns the last known revision token, or "" if none.
	Revision() (string, error)

	// LastSyncTime returns the last successful sync marker, or the zero time
	// if no sync completed yet.
	LastSyncTime() (time.Time, error)

	// SetLastSyncTime advances only the last-sync marker. Used by the
	// bookkeeping-repair branch, which moves no data.
	SetLastSyncTime(t time.Time) error

	// SetSynced records a revision token paired with the change time of the
	// snapshot that was transferred, in a single atomic write.
	SetSynced(revision string, t time.Time) error

	// MarkAttemptObserved records that a sync attempt started at t,
	// regardless of its outcome. External schedulers use it to throttle.
	MarkAttemptObserved(t time.Time) error
}

// DataStore turns in-memory application state into a snapshot and back.
type DataStore interface {
	ReadCurrentSnapshot(ctx context.Context) (*datastore.Snapshot, error)
	ImportSnapshot(ctx context.Context, snap *datastore.Snapshot) error
}

// Resolution is the arbiter's answer on divergence. It names the side to be
// updated, not the side to keep: ResolveUpdateLocal applies the remote copy
// locally, ResolveUpdateRemote pushes the local copy up.
type Resolution string

const (
	ResolveUpdateLocal  Resolution = "LOCAL"
	ResolveUpdateRemote Resolution = "REMOTE"
	ResolveDefer        Resolution = "DEFER"
)

// ConflictArbiter is consulted only on divergence. Resolve may block
// indefinitely awaiting a human decision; a deferred answer leaves all
// bookkeeping untouched and the divergence resurfaces on the next attempt.
type ConflictArbiter interface {
	Resolve(ctx context.Context, local, remote, lastSync time.Time) (Resolution, error)
}

// Result describes one completed sync attempt.
type Result struct {
	AttemptID  string
	Outcome    Outcome
	Resolution Resolution // set only when Outcome is Diverged
	Uploaded   bool
	Downloaded bool
	Revision   string // revision recorded in bookkeeping, if any
}
