package arbiter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/openvault/vaultsync/internal/client/sync"
)

var (
	promptBold = color.New(color.Bold).SprintFunc()
	promptWarn = color.New(color.FgHiYellow).SprintFunc()
)

// Prompt asks a human on the terminal to pick a side. When stdin is not a
// terminal there is nobody to ask, so every divergence is deferred. The read
// may block indefinitely; cancelling the context defers instead.
type Prompt struct {
	in    io.Reader
	out   io.Writer
	isTTY bool
}

func NewPrompt() *Prompt {
	return &Prompt{
		in:    os.Stdin,
		out:   os.Stderr,
		isTTY: isatty.IsTerminal(os.Stdin.Fd()),
	}
}

// NewPromptWithIO builds a prompt on explicit streams, treated as attached.
func NewPromptWithIO(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:    in,
		out:   out,
		isTTY: true,
	}
}

func (p *Prompt) Resolve(ctx context.Context, local, remote, lastSync time.Time) (sync.Resolution, error) {
	if !p.isTTY {
		slog.Warn("vault diverged but no terminal attached, deferring", "local", local, "remote", remote)
		return sync.ResolveDefer, nil
	}

	fmt.Fprintf(p.out, "\n%s\n", promptWarn("Your vault changed in two places since the last sync."))
	fmt.Fprintf(p.out, "  local copy changed:  %s\n", local.Format(time.RFC3339))
	fmt.Fprintf(p.out, "  remote copy changed: %s\n", remote.Format(time.RFC3339))
	fmt.Fprintf(p.out, "  last synced:         %s\n", lastSync.Format(time.RFC3339))
	fmt.Fprintf(p.out, "Keep %s, keep %s, or decide later? [l/r/later]: ", promptBold("(l)ocal"), promptBold("(r)emote"))

	answer := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(p.in).ReadString('\n')
		if err != nil {
			answer <- ""
			return
		}
		answer <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case <-ctx.Done():
		return sync.ResolveDefer, nil
	case line := <-answer:
		switch line {
		case "l", "local":
			// keeping local pushes the local copy up
			return sync.ResolveUpdateRemote, nil
		case "r", "remote":
			return sync.ResolveUpdateLocal, nil
		default:
			return sync.ResolveDefer, nil
		}
	}
}

var _ sync.ConflictArbiter = (*Prompt)(nil)
