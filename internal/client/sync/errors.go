package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady means the readiness gate failed; the attempt is not retried
	// by this package.
	ErrNotReady = errors.New("sync: remote access not ready")

	// ErrSyncAlreadyRunning means an attempt was requested while another one
	// was in flight. The new request is dropped, never interleaved.
	ErrSyncAlreadyRunning = errors.New("sync: attempt already running")

	// ErrMissingRevision means an upload or import reached its bookkeeping
	// step without a resolved revision token. Fatal for the attempt;
	// bookkeeping must never record a transfer without its paired token.
	ErrMissingRevision = errors.New("sync: revision token missing")

	// ErrInvalidBookkeeping means an empty or zero value was passed to a
	// bookkeeping setter. Indicates a caller bug.
	ErrInvalidBookkeeping = errors.New("sync: invalid bookkeeping value")
)

// TransportError wraps a RemoteStore failure. The attempt aborts without
// bookkeeping writes; a future attempt retries from scratch.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is worth retrying on a later attempt.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) || errors.Is(err, ErrSyncAlreadyRunning)
}
