package socket

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/jacobpatterson1549/trop-dur/game/message"
)

type mockDialer struct {
	DialFunc func(ctx context.Context, u url.URL) (Conn, error)
}

func (d *mockDialer) Dial(ctx context.Context, u url.URL) (Conn, error) {
	return d.DialFunc(ctx, u)
}

type mockConn struct {
	ReadMessageFunc  func(m *message.Message) error
	WriteMessageFunc func(m message.Message) error
	CloseFunc        func() error
}

func (c *mockConn) ReadMessage(m *message.Message) error {
	return c.ReadMessageFunc(m)
}

func (c *mockConn) WriteMessage(m message.Message) error {
	return c.WriteMessageFunc(m)
}

func (c *mockConn) Close() error {
	return c.CloseFunc()
}

var errConnClosed = errors.New("connection closed")

// fakeConn is a connection that reads from and writes to channels until it is closed.
// Closing reads ends the connection like a lost connection.
type fakeConn struct {
	reads     chan message.Message
	writes    chan message.Message
	closed    chan struct{}
	closeOnce sync.Once
	// writeErr fails writes of messages it returns an error for.
	writeErr func(m message.Message) error
}

func newFakeConn() *fakeConn {
	c := fakeConn{
		reads:  make(chan message.Message),
		writes: make(chan message.Message, 16),
		closed: make(chan struct{}),
	}
	return &c
}

func (c *fakeConn) ReadMessage(m *message.Message) error {
	select {
	case r, ok := <-c.reads:
		if !ok {
			return errConnClosed
		}
		*m = r
		return nil
	case <-c.closed:
		return errConnClosed
	}
}

func (c *fakeConn) WriteMessage(m message.Message) error {
	if c.writeErr != nil {
		if err := c.writeErr(m); err != nil {
			return err
		}
	}
	select {
	case c.writes <- m:
		return nil
	case <-c.closed:
		return errConnClosed
	}
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return nil
}

// connDialer dials the connections in order.
func connDialer(conns ...Conn) *mockDialer {
	c := make(chan Conn, len(conns))
	for _, conn := range conns {
		c <- conn
	}
	return &mockDialer{
		DialFunc: func(ctx context.Context, u url.URL) (Conn, error) {
			select {
			case conn := <-c:
				return conn, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
}
