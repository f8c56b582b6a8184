package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrWouldBlock reports that a nonblocking accept or a bounded receive saw
// nothing pending before its deadline.
var ErrWouldBlock = errors.New("ipc: operation would block")

// ErrExpectedHello reports a connection whose first message was not hello.
var ErrExpectedHello = errors.New("ipc: first message was not hello")

// acceptPoll is how long a nonblocking Accept waits before reporting
// ErrWouldBlock, bounding shutdown-flag latency without busy-spinning.
const acceptPoll = 200 * time.Millisecond

// Server owns the daemon's listening socket.
type Server struct {
	listener    *net.UnixListener
	socketPath  string
	maxFrame    int
	nonblocking bool
}

// Bind removes any stale socket file at path, then starts listening on it.
func Bind(socketPath string) (*Server, error) {
	if err := os.Remove(socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket %s: %w", socketPath, err)
	}

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("listen unix %s: %w", socketPath, err)
	}
	_ = os.Chmod(socketPath, 0o600)

	return &Server{listener: listener, socketPath: socketPath, maxFrame: MaxFrame}, nil
}

// SetNonblocking toggles whether Accept blocks indefinitely or returns
// ErrWouldBlock after a short poll interval.
func (s *Server) SetNonblocking(v bool) { s.nonblocking = v }

func (s *Server) SocketPath() string { return s.socketPath }

// Accept waits for one client connection.
func (s *Server) Accept() (*ClientConn, error) {
	deadline := time.Time{}
	if s.nonblocking {
		deadline = time.Now().Add(acceptPoll)
	}
	if err := s.listener.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set accept deadline: %w", err)
	}

	conn, err := s.listener.Accept()
	if err != nil {
		if os.IsTimeout(err) {
			return nil, ErrWouldBlock
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	return newClientConn(conn, s.maxFrame), nil
}

// Close stops listening; the listener unlinks the socket file.
func (s *Server) Close() error { return s.listener.Close() }

// ClientConn is the server half of one accepted connection.
type ClientConn struct {
	conn     net.Conn
	reader   *bufio.Reader
	maxFrame int
}

func newClientConn(conn net.Conn, maxFrame int) *ClientConn {
	return &ClientConn{conn: conn, reader: bufio.NewReader(conn), maxFrame: maxFrame}
}

// Recv blocks until one request frame arrives. Decode or I/O failure is
// fatal to the connection.
func (c *ClientConn) Recv() (Request, error) {
	if err := c.conn.SetReadDeadline(time.Time{}); err != nil {
		return Request{}, fmt.Errorf("clear read deadline: %w", err)
	}
	return c.recv()
}

// RecvTimeout waits at most d for the next request, returning ErrWouldBlock
// on deadline so the caller can poll its shutdown flag between requests.
// The deadline only covers waiting for the first byte; once a frame has
// started it is read to completion.
func (c *ClientConn) RecvTimeout(d time.Duration) (Request, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(d)); err != nil {
		return Request{}, fmt.Errorf("set read deadline: %w", err)
	}
	if _, err := c.reader.Peek(1); err != nil {
		if os.IsTimeout(err) {
			return Request{}, ErrWouldBlock
		}
		return Request{}, fmt.Errorf("read request: %w", err)
	}
	if err := c.conn.SetReadDeadline(time.Time{}); err != nil {
		return Request{}, fmt.Errorf("clear read deadline: %w", err)
	}
	return c.recv()
}

func (c *ClientConn) recv() (Request, error) {
	payload, err := ReadFrame(c.reader, c.maxFrame)
	if err != nil {
		return Request{}, err
	}
	return DecodeRequest(payload)
}

// Send writes one Response frame.
func (c *ClientConn) Send(resp Response) error {
	payload, err := EncodeWire(Wire{Response: &resp})
	if err != nil {
		return err
	}
	return WriteFrame(c.conn, payload)
}

// SendEvent writes one Event frame. Events for an operation must be sent
// before that operation's terminal Response.
func (c *ClientConn) SendEvent(ev Event) error {
	payload, err := EncodeWire(Wire{Event: &ev})
	if err != nil {
		return err
	}
	return WriteFrame(c.conn, payload)
}

// HandleHello services the first message of a connection: matching version
// gets Ok, a mismatch fails the connection, anything else is answered with
// an error response and reported as a protocol violation.
func (c *ClientConn) HandleHello(req Request) error {
	switch {
	case req.Type == RequestHello && req.Version == Version:
		return c.Send(Ok())
	case req.Type == RequestHello:
		return &VersionMismatchError{Client: req.Version, Server: Version}
	default:
		_ = c.Send(Errorf("expected hello"))
		return ErrExpectedHello
	}
}

func (c *ClientConn) Close() error { return c.conn.Close() }
