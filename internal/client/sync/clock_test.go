package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToRemote(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 42, 0, time.UTC)

	assert.Equal(t, base, TruncateToRemote(base))
	assert.Equal(t, base, TruncateToRemote(base.Add(1*time.Millisecond)))
	assert.Equal(t, base, TruncateToRemote(base.Add(999*time.Millisecond)))
	assert.Equal(t, base.Add(time.Second), TruncateToRemote(base.Add(1000*time.Millisecond)))
}

func TestSameInstant(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 42, 0, time.UTC)

	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{"identical", base, base, true},
		{"sub-second drift", base.Add(250 * time.Millisecond), base, true},
		{"both drifted within the same second", base.Add(100 * time.Millisecond), base.Add(900 * time.Millisecond), true},
		{"one full second apart", base.Add(time.Second), base, false},
		{"across the second boundary", base.Add(999 * time.Millisecond), base.Add(1001 * time.Millisecond), false},
		{"both zero", time.Time{}, time.Time{}, true},
		{"zero against set", time.Time{}, base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameInstant(tt.a, tt.b))
			assert.Equal(t, tt.want, SameInstant(tt.b, tt.a))
		})
	}
}
