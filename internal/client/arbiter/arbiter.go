package arbiter

import (
	"context"
	"fmt"
	"time"

	"github.com/openvault/vaultsync/internal/client/sync"
)

// Policy names for configuration. "prefer_local" keeps the local copy and
// pushes it up; "prefer_remote" pulls the remote copy down; "defer" leaves
// the divergence for a later attempt; "ask" prompts on the terminal.
const (
	PolicyAsk          = "ask"
	PolicyPreferLocal  = "prefer_local"
	PolicyPreferRemote = "prefer_remote"
	PolicyDefer        = "defer"
)

// Fixed resolves every divergence with the same answer, without consulting
// anyone.
type Fixed struct {
	answer sync.Resolution
}

func NewFixed(answer sync.Resolution) *Fixed {
	return &Fixed{answer: answer}
}

func (f *Fixed) Resolve(ctx context.Context, local, remote, lastSync time.Time) (sync.Resolution, error) {
	return f.answer, nil
}

// ForPolicy builds the arbiter for a configured policy name.
func ForPolicy(policy string) (sync.ConflictArbiter, error) {
	switch policy {
	case PolicyAsk:
		return NewPrompt(), nil
	case PolicyPreferLocal:
		// keeping local means the remote copy is the one to update
		return NewFixed(sync.ResolveUpdateRemote), nil
	case PolicyPreferRemote:
		return NewFixed(sync.ResolveUpdateLocal), nil
	case PolicyDefer, "":
		return NewFixed(sync.ResolveDefer), nil
	default:
		return nil, fmt.Errorf("unknown conflict policy %q", policy)
	}
}

var _ sync.ConflictArbiter = (*Fixed)(nil)
