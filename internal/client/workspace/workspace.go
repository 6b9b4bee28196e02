package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/openvault/vaultsync/internal/utils"
)

const (
	metadataDir = ".data"
	logsDir     = "logs"
	lockFile    = "vaultsync.lock"
	vaultFile   = "vault.json"
	stateFile   = "sync.db"
)

var (
	ErrWorkspaceLocked = errors.New("workspace locked by another process")
)

// Workspace is the on-disk layout of one vault: the snapshot file, the
// bookkeeping database, logs, and a lock that keeps concurrent daemons out.
type Workspace struct {
	Root        string
	MetadataDir string
	LogsDir     string
	VaultPath   string
	StateDBPath string

	flock *flock.Flock
}

func NewWorkspace(rootDir string) (*Workspace, error) {
	root, err := utils.ResolvePath(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", rootDir, err)
	}

	lockFilePath := filepath.Join(root, metadataDir, lockFile)

	return &Workspace{
		Root:        root,
		MetadataDir: filepath.Join(root, metadataDir),
		LogsDir:     filepath.Join(root, logsDir),
		VaultPath:   filepath.Join(root, vaultFile),
		StateDBPath: filepath.Join(root, metadataDir, stateFile),
		flock:       flock.New(lockFilePath),
	}, nil
}

// Lock takes the workspace lock so other vaultsync instances cannot sync the
// same vault concurrently.
func (w *Workspace) Lock() error {
	if err := utils.EnsureDir(w.MetadataDir); err != nil {
		return fmt.Errorf("create directory %s: %w", w.MetadataDir, err)
	}

	locked, err := w.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		return ErrWorkspaceLocked
	}

	return nil
}

func (w *Workspace) Unlock() error {
	// if this process hasn't locked the workspace, don't delete the lock file
	if !w.flock.Locked() {
		return nil
	}

	if err := w.flock.Unlock(); err != nil {
		return fmt.Errorf("unlock workspace: %w", err)
	}

	return os.Remove(w.flock.Path())
}

// Setup creates the workspace directories and takes the lock.
func (w *Workspace) Setup() error {
	if err := w.Lock(); err != nil {
		return err
	}

	slog.Info("workspace", "root", w.Root)

	for _, dir := range []string{w.MetadataDir, w.LogsDir} {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
