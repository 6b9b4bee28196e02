package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openvault/vaultsync/internal/client"
	"github.com/openvault/vaultsync/internal/client/arbiter"
	"github.com/openvault/vaultsync/internal/client/config"
	"github.com/openvault/vaultsync/internal/utils"
	"github.com/openvault/vaultsync/internal/version"
)

var (
	home, _          = os.UserHomeDir()
	defaultServerURL = "https://vault.openvault.dev"
	configFileName   = "config"
)

var (
	cyan  = color.New(color.FgHiCyan, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:     "vaultsync",
	Short:   "VaultSync keeps a local vault snapshot in sync with its remote copy",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromViper()
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		fmt.Println(cyan(version.ShortWithApp()))

		c, err := client.New(cfg)
		if err != nil {
			return err
		}

		defer slog.Info("Bye!")
		return c.Start(cmd.Context())
	},
}

func init() {
	// persistent so the one-shot subcommands accept them too
	pf := rootCmd.PersistentFlags()
	pf.SortFlags = false
	pf.StringP("vaultdir", "d", config.DefaultVaultDir, "Vault data directory")
	pf.StringP("server", "s", defaultServerURL, "Vault server URL")
	pf.StringP("key", "k", "", "Remote vault key")
	pf.Int64P("interval", "i", 0, "Sync interval in milliseconds (0 = default)")
	pf.String("conflict", arbiter.PolicyAsk, "Conflict policy: ask, prefer_local, prefer_remote, defer")
	pf.StringP("config", "c", config.DefaultConfigPath, "VaultSync config file")
}

func main() {
	logFile := filepath.Join(home, ".vaultsync", "logs", "vaultsync.log")

	if err := utils.EnsureParent(logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	logger := slog.New(utils.NewMultiLogHandler(stdoutHandler, fileHandler))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	if cfgFlag := flags.Lookup("config"); cfgFlag.Changed {
		viper.SetConfigFile(cfgFlag.Value.String())
	} else {
		viper.AddConfigPath(filepath.Join(home, ".vaultsync"))
		viper.AddConfigPath(filepath.Join(home, ".config/vaultsync"))
		viper.SetConfigName(configFileName)
		viper.SetConfigType("json")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.BindPFlag("vault_dir", flags.Lookup("vaultdir"))
	viper.BindPFlag("server_url", flags.Lookup("server"))
	viper.BindPFlag("vault_key", flags.Lookup("key"))
	viper.BindPFlag("sync_interval_ms", flags.Lookup("interval"))
	viper.BindPFlag("conflict_policy", flags.Lookup("conflict"))

	viper.SetDefault("sync_enabled", true)

	viper.SetEnvPrefix("VAULTSYNC")
	viper.AutomaticEnv()

	return nil
}

func configFromViper() (*config.Config, error) {
	cfg := &config.Config{
		Path:           viper.ConfigFileUsed(),
		VaultDir:       viper.GetString("vault_dir"),
		ServerURL:      viper.GetString("server_url"),
		VaultKey:       viper.GetString("vault_key"),
		AccessToken:    viper.GetString("access_token"),
		SyncEnabled:    viper.GetBool("sync_enabled"),
		SyncIntervalMs: viper.GetInt64("sync_interval_ms"),
		ConflictPolicy: viper.GetString("conflict_policy"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
