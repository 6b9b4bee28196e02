package datastore

import (
	"time"

	"github.com/goccy/go-json"
)

// Snapshot is the full serialized application state plus its own change
// marker. ChangedAt is the authoritative local change time, read from the
// data itself rather than from a separate clock, and carries millisecond
// precision.
type Snapshot struct {
	SchemaVersion int             `json:"schema_version"`
	ChangedAt     time.Time       `json:"changed_at"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// Touch advances the snapshot's change marker to now, truncated to the
// millisecond precision the marker is defined in.
func (s *Snapshot) Touch() {
	s.ChangedAt = time.Now().Truncate(time.Millisecond)
}
