package sync

import "time"

// The vault server reports modification times without sub-second precision,
// while local change markers carry milliseconds. Comparing raw values against
// server times produces false inequality, so every equality test goes through
// truncation first. Ordering tests (After/Before) keep raw precision.
const remoteResolution = time.Second

// TruncateToRemote drops sub-second precision from t, matching the
// granularity the vault server reports.
func TruncateToRemote(t time.Time) time.Time {
	return t.Truncate(remoteResolution)
}

// SameInstant reports whether a and b are the same instant once both are
// truncated to the server's resolution.
func SameInstant(a, b time.Time) bool {
	return TruncateToRemote(a).Equal(TruncateToRemote(b))
}
