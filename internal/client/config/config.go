package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/goccy/go-json"

	"github.com/openvault/vaultsync/internal/client/arbiter"
	"github.com/openvault/vaultsync/internal/utils"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".vaultsync", "config.json")
	DefaultVaultDir   = filepath.Join(home, "VaultSync")
)

var validPolicies = []string{
	arbiter.PolicyAsk,
	arbiter.PolicyPreferLocal,
	arbiter.PolicyPreferRemote,
	arbiter.PolicyDefer,
}

type Config struct {
	VaultDir       string `json:"vault_dir"`
	ServerURL      string `json:"server_url"`
	VaultKey       string `json:"vault_key"`
	AccessToken    string `json:"access_token"`
	SyncEnabled    bool   `json:"sync_enabled"`
	SyncIntervalMs int64  `json:"sync_interval_ms"`
	ConflictPolicy string `json:"conflict_policy"`
	Path           string `json:"-"`
}

func (c *Config) Validate() error {
	if c.VaultDir == "" {
		return fmt.Errorf("vault_dir is required")
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.VaultKey == "" {
		return fmt.Errorf("vault_key is required")
	}
	if c.ConflictPolicy != "" && !slices.Contains(validPolicies, c.ConflictPolicy) {
		return fmt.Errorf("conflict_policy must be one of %v", validPolicies)
	}
	return nil
}

// SyncInterval returns the configured interval, or zero when unset so the
// sync manager applies its default.
func (c *Config) SyncInterval() time.Duration {
	if c.SyncIntervalMs <= 0 {
		return 0
	}
	return time.Duration(c.SyncIntervalMs) * time.Millisecond
}

func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	return &cfg, nil
}
