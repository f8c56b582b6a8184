package ipc

import (
	"bufio"
	"fmt"
	"net"
)

// Client is one synchronous protocol session with the daemon.
//
// Call blocks until a Response arrives; events the daemon interleaves while
// a call is in flight are queued in arrival order for NextEvent. Any
// transport or decode failure is fatal to the session — there is no
// reconnect.
type Client struct {
	conn     net.Conn
	reader   *bufio.Reader
	maxFrame int
	pending  []Event
}

// Connect dials the daemon socket and performs the version handshake. A
// non-Ok handshake response fails the connect.
func Connect(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", socketPath, err)
	}

	c := newClient(conn)
	resp, err := c.Call(Hello())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}

	switch resp.Type {
	case ResponseOk:
		return c, nil
	case ResponseError:
		_ = conn.Close()
		return nil, fmt.Errorf("handshake rejected: %s", resp.Message)
	default:
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: unexpected response %q", resp.Type)
	}
}

func newClient(conn net.Conn) *Client {
	return &Client{conn: conn, reader: bufio.NewReader(conn), maxFrame: MaxFrame}
}

// Call sends one request and blocks until its Response. Interleaved events
// are buffered, never dropped.
func (c *Client) Call(req Request) (Response, error) {
	payload, err := EncodeRequest(req)
	if err != nil {
		return Response{}, err
	}
	if err := WriteFrame(c.conn, payload); err != nil {
		return Response{}, err
	}

	for {
		w, err := c.recvWire()
		if err != nil {
			return Response{}, err
		}
		if w.Response != nil {
			return *w.Response, nil
		}
		c.pending = append(c.pending, *w.Event)
	}
}

// NextEvent returns the oldest buffered event, or blocks on the wire until
// one arrives.
func (c *Client) NextEvent() (Event, error) {
	if len(c.pending) > 0 {
		ev := c.pending[0]
		c.pending = c.pending[1:]
		return ev, nil
	}

	for {
		w, err := c.recvWire()
		if err != nil {
			return Event{}, err
		}
		if w.Event != nil {
			return *w.Event, nil
		}
		// A Response with no call in flight has no consumer; drop it and
		// keep waiting.
	}
}

func (c *Client) recvWire() (Wire, error) {
	payload, err := ReadFrame(c.reader, c.maxFrame)
	if err != nil {
		return Wire{}, err
	}
	return DecodeWire(payload)
}

func (c *Client) Close() error { return c.conn.Close() }
