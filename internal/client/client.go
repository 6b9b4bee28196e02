package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/openvault/vaultsync/internal/client/arbiter"
	"github.com/openvault/vaultsync/internal/client/config"
	"github.com/openvault/vaultsync/internal/client/datastore"
	"github.com/openvault/vaultsync/internal/client/state"
	"github.com/openvault/vaultsync/internal/client/sync"
	"github.com/openvault/vaultsync/internal/client/workspace"
	"github.com/openvault/vaultsync/internal/vaultsdk"
)

// Client wires the vault workspace, the server SDK, the bookkeeping store and
// the sync machinery together.
type Client struct {
	config    *config.Config
	workspace *workspace.Workspace
	sdk       *vaultsdk.VaultSDK
	state     *state.Store
	manager   *sync.Manager
	orch      *sync.Orchestrator
}

func New(cfg *config.Config) (*Client, error) {
	ws, err := workspace.NewWorkspace(cfg.VaultDir)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	sdk, err := vaultsdk.New(&vaultsdk.VaultSDKConfig{
		BaseURL:     cfg.ServerURL,
		VaultKey:    cfg.VaultKey,
		AccessToken: cfg.AccessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("create sdk: %w", err)
	}

	return &Client{
		config:    cfg,
		workspace: ws,
		sdk:       sdk,
	}, nil
}

// setup locks the workspace and builds the sync pipeline. Runs once, after
// which the client is ready for attempts.
func (c *Client) setup() error {
	if err := c.workspace.Setup(); err != nil {
		return fmt.Errorf("setup workspace: %w", err)
	}

	st, err := state.Open(c.workspace.StateDBPath)
	if err != nil {
		return fmt.Errorf("open sync state: %w", err)
	}
	c.state = st

	arb, err := arbiter.ForPolicy(c.config.ConflictPolicy)
	if err != nil {
		return err
	}

	remote := newRemoteVault(c.sdk.Vault)
	data := datastore.NewLocalStore(c.workspace.VaultPath)

	c.orch = sync.NewOrchestrator(remote, st, data, arb,
		sync.WithReadyCheck(c.ready))

	watcher := sync.NewSnapshotWatcher(c.workspace.VaultPath)
	c.manager = sync.NewManager(c.orch, watcher, c.config.SyncInterval())

	return nil
}

// ready is the capability gate: sync must be enabled and the SDK must hold a
// usable token.
func (c *Client) ready() error {
	if !c.config.SyncEnabled {
		return errors.New("sync disabled in config")
	}
	return c.sdk.Ready()
}

// Start runs the daemon until the context is cancelled.
func (c *Client) Start(ctx context.Context) error {
	slog.Info("vaultsync client start", "vault", c.config.VaultDir, "server", c.config.ServerURL, "key", c.config.VaultKey)

	if err := c.setup(); err != nil {
		return err
	}
	defer c.teardown()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := c.manager.Start(egCtx); err != nil {
			return fmt.Errorf("start sync manager: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("stopping client")
		c.manager.Stop()
		return nil
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("client failure", "error", err)
		return err
	}

	slog.Info("vaultsync client stop")
	return nil
}

// RunOnce performs a single sync attempt and returns its result. Used by the
// one-shot CLI command.
func (c *Client) RunOnce(ctx context.Context) (*sync.Result, error) {
	if err := c.setup(); err != nil {
		return nil, err
	}
	defer c.teardown()

	return c.orch.RunSync(ctx)
}

func (c *Client) teardown() {
	if c.state != nil {
		if err := c.state.Close(); err != nil {
			slog.Warn("close sync state", "error", err)
		}
	}
	if err := c.workspace.Unlock(); err != nil {
		slog.Warn("unlock workspace", "error", err)
	}
	c.sdk.Close()
}
