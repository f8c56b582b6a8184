package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dpilgrim/capit/internal/config"
)

// RuntimeIPCDir is where the socket and lock live: the user runtime dir
// when the session provides one, a world-shared tmp subdirectory
// otherwise.
func RuntimeIPCDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return filepath.Join(dir, "capit")
	}
	return filepath.Join(os.TempDir(), "capit")
}

// DefaultSocketPath returns the IPC socket location clients and daemon
// agree on when no --socket override is given.
func DefaultSocketPath() string {
	return filepath.Join(RuntimeIPCDir(), "capit.sock")
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create runtime directory: %w", err)
	}
	return nil
}

// OutputDir resolves where screenshots land, in priority order: the
// CAPIT_DIR environment override, the configured screenshot directory,
// then a per-session fallback.
func OutputDir(cfg config.Config) string {
	if dir := strings.TrimSpace(os.Getenv("CAPIT_DIR")); dir != "" {
		return config.ExpandPath(dir)
	}
	if cfg.ScreenshotDirectory != "" {
		return cfg.ScreenshotDirectory
	}
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return filepath.Join(dir, "capit")
	}
	return filepath.Join(os.TempDir(), "capit")
}

// DefaultOutputPath names a fresh capture file inside OutputDir.
func DefaultOutputPath(cfg config.Config, ext string) string {
	name := fmt.Sprintf("capit-%d.%s", time.Now().Unix(), ext)
	return filepath.Join(OutputDir(cfg), name)
}
