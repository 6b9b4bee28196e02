package arbiter

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvault/vaultsync/internal/client/sync"
)

func TestPromptAnswers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  sync.Resolution
	}{
		{"keep local", "l\n", sync.ResolveUpdateRemote},
		{"keep local long form", "local\n", sync.ResolveUpdateRemote},
		{"keep remote", "r\n", sync.ResolveUpdateLocal},
		{"keep remote long form", "REMOTE\n", sync.ResolveUpdateLocal},
		{"decide later", "later\n", sync.ResolveDefer},
		{"empty answer", "\n", sync.ResolveDefer},
		{"garbage", "whatever\n", sync.ResolveDefer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPromptWithIO(strings.NewReader(tt.input), &out)

			got, err := p.Resolve(context.Background(), time.UnixMilli(2000), time.UnixMilli(3000), time.UnixMilli(1000))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "changed in two places")
		})
	}
}

func TestPromptWithoutTerminalDefers(t *testing.T) {
	p := &Prompt{in: strings.NewReader("l\n"), out: io.Discard, isTTY: false}

	got, err := p.Resolve(context.Background(), time.Now(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, sync.ResolveDefer, got, "headless runs must never block on stdin")
}

func TestPromptCancelledContextDefers(t *testing.T) {
	// a reader that never delivers a line, like an idle terminal
	pr, _ := io.Pipe()
	p := NewPromptWithIO(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := p.Resolve(ctx, time.Now(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, sync.ResolveDefer, got)
}
