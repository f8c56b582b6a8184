package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultSessionSocket(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "wayland-1")
	require.Equal(t, "/run/user/1000/wayland-1", DefaultSessionSocket())

	t.Setenv("WAYLAND_DISPLAY", "")
	require.Equal(t, "", DefaultSessionSocket())
}

func TestWatchSessionNoSocketConfigured(t *testing.T) {
	var stop atomic.Bool

	done := make(chan struct{})
	go func() {
		WatchSession(context.Background(), slog.Default(), &stop, "")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchSession should return immediately with no socket")
	}
	require.False(t, stop.Load())
}

func TestWatchSessionStopsOnContextCancel(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "wayland-1")
	require.NoError(t, os.WriteFile(sock, nil, 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	var stop atomic.Bool

	done := make(chan struct{})
	go func() {
		WatchSession(ctx, slog.Default(), &stop, sock)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchSession did not honor context cancellation")
	}
	require.False(t, stop.Load())
}
