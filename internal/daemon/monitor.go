package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

const sessionPollInterval = 2 * time.Second

// DefaultSessionSocket locates the compositor socket whose disappearance
// means the desktop session ended. Empty when the environment does not
// describe one.
func DefaultSessionSocket() string {
	runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	display := strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY"))
	if runtimeDir == "" || display == "" {
		return ""
	}
	return filepath.Join(runtimeDir, display)
}

// WatchSession polls the session socket and raises stop when it goes
// away, so the daemon does not outlive the desktop it serves. Returns
// when the socket vanishes or ctx is done.
func WatchSession(ctx context.Context, log *slog.Logger, stop *atomic.Bool, socketPath string) {
	if socketPath == "" {
		return
	}

	ticker := time.NewTicker(sessionPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := os.Stat(socketPath); err != nil {
				log.Info("session socket gone, shutting down", "path", socketPath)
				stop.Store(true)
				return
			}
		}
	}
}
