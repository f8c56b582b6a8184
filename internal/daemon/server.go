package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dpilgrim/capit/internal/capture"
	"github.com/dpilgrim/capit/internal/config"
	"github.com/dpilgrim/capit/internal/core"
	"github.com/dpilgrim/capit/internal/ipc"
	"github.com/dpilgrim/capit/internal/lockfile"
	"github.com/dpilgrim/capit/internal/notify"
	"github.com/dpilgrim/capit/internal/outputs"
	"github.com/dpilgrim/capit/internal/selection"
)

const requestPollInterval = 200 * time.Millisecond

// Options configures a daemon. Zero-value collaborators get live
// defaults; tests inject fakes.
type Options struct {
	SocketPath    string
	SessionSocket string
	Cfg           config.Config
	Logger        *slog.Logger

	Backend      capture.Backend
	Overlay      Overlay
	Notifier     notify.Notifier
	QueryOutputs func() []core.OutputInfo
}

// Daemon is the capture orchestrator process.
type Daemon struct {
	opts Options
	stop atomic.Bool
}

func New(opts Options) *Daemon {
	if opts.SocketPath == "" {
		opts.SocketPath = DefaultSocketPath()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Backend == nil {
		opts.Backend = capture.Screen{}
	}
	if opts.Overlay == nil {
		opts.Overlay = ExecOverlay{}
	}
	if opts.QueryOutputs == nil {
		opts.QueryOutputs = outputs.Query
	}
	return &Daemon{opts: opts}
}

// Run serves the socket until ctx is cancelled or the desktop session
// ends. Returns lockfile.AlreadyRunningError when another daemon holds
// the instance lock.
func (d *Daemon) Run(ctx context.Context) error {
	log := d.opts.Logger

	if err := EnsureParentDir(d.opts.SocketPath); err != nil {
		return err
	}

	lock, err := lockfile.AcquireForSocket(d.opts.SocketPath)
	if err != nil {
		var already *lockfile.AlreadyRunningError
		if errors.As(err, &already) {
			log.Info("daemon already running", "lock", already.Path)
		}
		return err
	}
	defer lock.Release()

	srv, err := ipc.Bind(d.opts.SocketPath)
	if err != nil {
		return err
	}
	defer srv.Close()
	srv.SetNonblocking(true)

	state := &State{Cfg: d.opts.Cfg, Outputs: d.opts.QueryOutputs()}
	if len(state.Outputs) == 0 {
		log.Warn("no outputs detected at startup")
	}

	dispatcher := &Dispatcher{
		State:    state,
		Backend:  d.opts.Backend,
		Overlay:  d.opts.Overlay,
		Notifier: d.opts.Notifier,
		Logger:   log,
		OutputPath: func(ext string) string {
			return DefaultOutputPath(d.opts.Cfg, ext)
		},
	}

	go func() {
		<-ctx.Done()
		d.stop.Store(true)
	}()
	go WatchSession(ctx, log, &d.stop, d.opts.SessionSocket)

	log.Info("daemon listening", "socket", d.opts.SocketPath, "outputs", len(state.Outputs))

	for !d.stop.Load() {
		conn, err := srv.Accept()
		if errors.Is(err, ipc.ErrWouldBlock) {
			continue
		}
		if err != nil {
			log.Warn("accept", "error", err)
			continue
		}
		d.serveConn(conn, dispatcher)
	}

	log.Info("daemon stopping")
	return nil
}

// serveConn runs one client session to completion. Sessions are served
// one at a time; this tool has exactly one interactive user.
func (d *Daemon) serveConn(conn *ipc.ClientConn, dispatcher *Dispatcher) {
	log := d.opts.Logger
	defer conn.Close()

	first, ok := d.pollRecv(conn)
	if !ok {
		return
	}
	if err := conn.HandleHello(first); err != nil {
		log.Warn("handshake", "error", err)
		return
	}

	sel := selection.New()
	defer dispatcher.ReleaseSession(sel)

	for !d.stop.Load() {
		req, ok := d.pollRecv(conn)
		if !ok {
			return
		}

		resp := dispatcher.Handle(sel, conn, req)
		if err := conn.Send(resp); err != nil {
			log.Warn("send response", "error", err)
			return
		}
	}
}

// pollRecv waits for a request while watching the stop flag. False
// means the session is over, either peer close or shutdown.
func (d *Daemon) pollRecv(conn *ipc.ClientConn) (ipc.Request, bool) {
	for !d.stop.Load() {
		req, err := conn.RecvTimeout(requestPollInterval)
		if errors.Is(err, ipc.ErrWouldBlock) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.opts.Logger.Warn("recv", "error", err)
			}
			return ipc.Request{}, false
		}
		return req, true
	}
	return ipc.Request{}, false
}
