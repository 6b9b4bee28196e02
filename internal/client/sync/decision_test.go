package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// at builds a marker at a millisecond offset from a fixed epoch, mirroring how
// change times are produced in practice.
func at(ms int64) time.Time {
	epoch := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		local    time.Time
		remote   time.Time
		lastSync time.Time
		want     Outcome
	}{
		{
			name:  "all equal",
			local: at(1000), remote: at(1000), lastSync: at(1000),
			want: InSync,
		},
		{
			name:  "all zero, never synced anywhere",
			local: at(0), remote: at(0), lastSync: at(0),
			want: InSync,
		},
		{
			name:  "only local moved",
			local: at(2000), remote: at(1000), lastSync: at(1000),
			want: RemoteUpdateRequired,
		},
		{
			name:  "only remote moved",
			local: at(1000), remote: at(2000), lastSync: at(1000),
			want: LocalUpdateRequired,
		},
		{
			name:  "both moved",
			local: at(2500), remote: at(2000), lastSync: at(1000),
			want: Diverged,
		},
		{
			name:  "marker ahead of both sides",
			local: at(1000), remote: at(1000), lastSync: at(5000),
			want: SyncPointStale,
		},
		{
			name:  "marker ahead of remote, behind local",
			local: at(6000), remote: at(1000), lastSync: at(5000),
			want: SyncPointStale,
		},
		{
			name:  "sub-second skew still counts as in sync",
			local: at(1250), remote: at(1000), lastSync: at(1100),
			want: InSync,
		},
		{
			name:  "sub-second remote skew, local genuinely ahead",
			local: at(3000), remote: at(1900), lastSync: at(1100),
			want: RemoteUpdateRequired,
		},
		{
			name:  "sub-second local skew, remote genuinely ahead",
			local: at(1250), remote: at(4000), lastSync: at(1100),
			want: LocalUpdateRequired,
		},
		{
			name:  "never synced, remote has data",
			local: at(0), remote: at(9000), lastSync: at(0),
			want: LocalUpdateRequired,
		},
		{
			name:  "never synced, only local has data",
			local: at(9000), remote: at(0), lastSync: at(0),
			want: RemoteUpdateRequired,
		},
		{
			name:  "millisecond difference within one second is a tie",
			local: at(1001), remote: at(1000), lastSync: at(1001),
			want: InSync,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(SyncPoint{Local: tt.local, Remote: tt.remote, LastSync: tt.lastSync})
			assert.Equal(t, tt.want, got)
		})
	}
}

// Branch priority: equality tests win over ordering tests, so a remote that is
// the same second as the marker while local moved must push, never diverge.
func TestDecidePriorityOrder(t *testing.T) {
	// remote drifted 400ms past the marker, local a full 2s past it
	p := SyncPoint{Local: at(3000), Remote: at(1400), LastSync: at(1000)}
	assert.Equal(t, RemoteUpdateRequired, Decide(p))

	// mirrored for the local side
	p = SyncPoint{Local: at(1400), Remote: at(3000), LastSync: at(1000)}
	assert.Equal(t, LocalUpdateRequired, Decide(p))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "InSync", InSync.String())
	assert.Equal(t, "LocalUpdateRequired", LocalUpdateRequired.String())
	assert.Equal(t, "RemoteUpdateRequired", RemoteUpdateRequired.String())
	assert.Equal(t, "Diverged", Diverged.String())
	assert.Equal(t, "SyncPointStale", SyncPointStale.String())
}
