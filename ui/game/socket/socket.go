// Package socket contains the logic to communicate with the server for the game.
package socket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jacobpatterson1549/trop-dur/game/message"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/jacobpatterson1549/trop-dur/ui/metrics"
	"github.com/jacobpatterson1549/trop-dur/ui/runner"
	"golang.org/x/time/rate"
)

type (
	// Socket pushes messages to and pulls messages from the server, reconnecting when the connection is lost.
	Socket struct {
		runner.Runner
		Config
		url    url.URL
		mu     sync.Mutex
		queue  []message.Message
		queued chan struct{}
		err    error
	}

	// Config contains the parameters to create a Socket.
	Config struct {
		// URL is the address of the game server.  The scheme is changed for each dialer.
		URL string
		// Room is the room joined each time the socket connects.
		Room string
		// AccessToken is added to the url when it is set.
		AccessToken string
		// Log is used to log connection problems.
		Log log.Logger
		// Dialers are tried in order when connecting.  A websocket dialer then a long-poll dialer are used when empty.
		Dialers []Dialer
		// ReconnectWait is the least time between connection attempts.
		ReconnectWait time.Duration
		// MaxReconnects is the number of attempts in a row that can fail before the socket stops.  Zero allows unlimited attempts.
		MaxReconnects int
		// Metrics records reconnects and received messages.
		Metrics *metrics.Metrics
		// Debug causes the events of messages to be logged.
		Debug bool
	}

	// Dialer creates connections to the server.
	Dialer interface {
		// Dial connects to the url.
		Dial(ctx context.Context, u url.URL) (Conn, error)
	}

	// Conn is a connection to the server.  It can be read and written on different goroutines.
	Conn interface {
		// ReadMessage reads the next message from the connection.
		ReadMessage(m *message.Message) error
		// WriteMessage writes the message to the connection.
		WriteMessage(m message.Message) error
		// Close closes the connection, stopping any read or write.
		Close() error
	}
)

// ErrReconnectsExhausted is the error of the socket after it failed to connect too many times in a row.
var ErrReconnectsExhausted = errors.New("could not reconnect to the server")

// NewSocket creates a socket.
func (cfg Config) NewSocket() (*Socket, error) {
	u, err := cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	if len(cfg.Dialers) == 0 {
		cfg.Dialers = []Dialer{
			new(WebSocketDialer),
			new(PollDialer),
		}
	}
	s := Socket{
		Config: cfg,
		url:    *u,
		queued: make(chan struct{}, 1),
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() (*url.URL, error) {
	u, err := url.Parse(cfg.URL)
	switch {
	case err != nil:
		return nil, fmt.Errorf("parsing url: %w", err)
	case len(u.Host) == 0:
		return nil, fmt.Errorf("url host required")
	case cfg.Log == nil:
		return nil, fmt.Errorf("log required")
	case len(cfg.Room) == 0:
		return nil, fmt.Errorf("room required")
	case cfg.ReconnectWait <= 0:
		return nil, fmt.Errorf("positive reconnect wait required")
	case cfg.MaxReconnects < 0:
		return nil, fmt.Errorf("non-negative max reconnects required")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported url scheme: %q", u.Scheme)
	}
	q := u.Query()
	q.Set("room", cfg.Room)
	if len(cfg.AccessToken) != 0 {
		q.Set("access_token", cfg.AccessToken)
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// Run connects to the server on a separate goroutine.
// Messages from the server are written to the returned channel, starting with a connected message each time the room is joined.
// The channel is closed when the context is cancelled or the socket can no longer reconnect.
func (s *Socket) Run(ctx context.Context) (<-chan message.Message, error) {
	if err := s.Runner.Run(); err != nil {
		return nil, fmt.Errorf("running socket: %w", err)
	}
	in := make(chan message.Message)
	go s.run(ctx, in)
	return in, nil
}

// Send queues a message to write to the server.  Messages queued while disconnected are written after the room is joined again.
func (s *Socket) Send(m message.Message) {
	s.mu.Lock()
	s.queue = append(s.queue, m)
	s.mu.Unlock()
	select {
	case s.queued <- struct{}{}:
	default:
	}
}

// Err is the reason the socket stopped, or nil.
func (s *Socket) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// run connects and pumps messages until the context is done or the reconnect attempts are used up.
func (s *Socket) run(ctx context.Context, in chan<- message.Message) {
	defer s.Runner.Finish()
	defer close(in)
	limiter := rate.NewLimiter(rate.Every(s.ReconnectWait), 1)
	failures := 0
	joined := false
	for {
		if err := limiter.Wait(ctx); err != nil {
			return // context done
		}
		conn, err := s.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			s.Log.Warning(fmt.Sprintf("connecting to server (attempt %v): %v", failures, err))
			if s.MaxReconnects > 0 && failures >= s.MaxReconnects {
				s.setErr(ErrReconnectsExhausted)
				s.Log.Error(ErrReconnectsExhausted.Error())
				return
			}
			continue
		}
		failures = 0
		if joined {
			s.Metrics.Reconnected()
		}
		joined = true
		err = s.pump(ctx, conn, in)
		if ctx.Err() != nil {
			return
		}
		s.Log.Warning("connection to server lost: " + err.Error())
	}
}

// connect dials the server with the first dialer that can join the room.
func (s *Socket) connect(ctx context.Context) (Conn, error) {
	join, err := message.New(message.JoinRoom, message.Room{Room: s.Room})
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, d := range s.Dialers {
		conn, err := d.Dial(ctx, s.url)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := conn.WriteMessage(join); err != nil {
			conn.Close()
			errs = append(errs, fmt.Errorf("joining room: %w", err))
			continue
		}
		return conn, nil
	}
	return nil, errors.Join(errs...)
}

// pump reads and writes messages on separate goroutines until one of them fails or the context is done.
func (s *Socket) pump(ctx context.Context, conn Conn, in chan<- message.Message) error {
	defer conn.Close()
	select {
	case in <- message.Message{Event: message.Connected}:
	case <-ctx.Done():
		return ctx.Err()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errC := make(chan error, 2)
	go func() {
		errC <- s.readMessages(ctx, conn, in)
	}()
	go func() {
		errC <- s.writeMessages(ctx, conn)
	}()
	err := <-errC
	cancel()
	conn.Close()
	<-errC
	return err
}

// readMessages writes messages from the connection to the inbound channel.
func (s *Socket) readMessages(ctx context.Context, conn Conn, in chan<- message.Message) error {
	for {
		var m message.Message
		if err := conn.ReadMessage(&m); err != nil { // BLOCKING
			return fmt.Errorf("reading message: %w", err)
		}
		if s.Debug {
			s.Log.Debug(fmt.Sprintf("socket reading message with event %v", m.Event))
		}
		s.Metrics.MessageReceived(string(m.Event))
		select {
		case in <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// writeMessages writes queued messages to the connection in order.
// A message that could not be written stays at the front of the queue.
func (s *Socket) writeMessages(ctx context.Context, conn Conn) error {
	for {
		m, ok := s.peek()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.queued:
			}
			continue
		}
		if s.Debug {
			s.Log.Debug(fmt.Sprintf("socket writing message with event %v", m.Event))
		}
		if err := conn.WriteMessage(m); err != nil {
			return fmt.Errorf("writing %v message: %w", m.Event, err)
		}
		s.pop()
	}
}

func (s *Socket) peek() (message.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return message.Message{}, false
	}
	return s.queue[0], true
}

func (s *Socket) pop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = s.queue[1:]
}

func (s *Socket) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
