package sync

import "time"

type Outcome uint8

var outcomeNames = []string{
	"InSync",
	"LocalUpdateRequired",
	"RemoteUpdateRequired",
	"Diverged",
	"SyncPointStale",
}

const (
	// InSync means neither side changed since the last sync.
	InSync Outcome = iota
	// LocalUpdateRequired means only the remote copy changed; pull it down.
	LocalUpdateRequired
	// RemoteUpdateRequired means only the local copy changed; push it up.
	RemoteUpdateRequired
	// Diverged means both sides changed independently since the last sync.
	Diverged
	// SyncPointStale means the bookkeeping is ahead of or skewed against both
	// sides; repair it by advancing the last-sync marker, moving no data.
	SyncPointStale
)

func (o Outcome) String() string {
	return outcomeNames[o]
}

// SyncPoint is the triple of change markers driving the decision. All three
// are logical clocks, monotonically increasing markers of last mutation.
// Remote carries second resolution, Local and LastSync carry milliseconds.
type SyncPoint struct {
	Local    time.Time
	Remote   time.Time
	LastSync time.Time
}

// Decide computes the sync direction from a SyncPoint. Pure, no I/O.
// Branches are evaluated in priority order, first match wins. Ties are broken
// with a "no data movement" bias: an unnecessary transfer risks overwriting a
// concurrent writer, while a no-op is safely retried on the next cycle.
func Decide(p SyncPoint) Outcome {
	sameLocal := SameInstant(p.Local, p.LastSync)
	sameRemote := SameInstant(p.Remote, p.LastSync)

	switch {
	case sameRemote && sameLocal:
		return InSync
	case sameRemote && p.Local.After(p.LastSync):
		return RemoteUpdateRequired
	case sameLocal && p.Remote.After(p.LastSync):
		return LocalUpdateRequired
	case p.Local.After(p.LastSync) && p.Remote.After(p.LastSync):
		return Diverged
	default:
		return SyncPointStale
	}
}
