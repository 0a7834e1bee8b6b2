package socket

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/jacobpatterson1549/trop-dur/game/message"
	"github.com/jacobpatterson1549/trop-dur/ui/log/logtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

func testConfig(dialers ...Dialer) Config {
	return Config{
		URL:           "http://example.com/socket",
		Room:          "r1",
		AccessToken:   "a.jwt.token",
		Log:           logtest.DiscardLogger,
		Dialers:       dialers,
		ReconnectWait: time.Millisecond,
	}
}

func TestNewSocket(t *testing.T) {
	newSocketTests := []struct {
		name    string
		modify  func(cfg *Config)
		wantURL string
		wantOk  bool
	}{
		{
			name:    "ok",
			wantURL: "http://example.com/socket?access_token=a.jwt.token&room=r1",
			wantOk:  true,
		},
		{
			name:    "no token",
			modify:  func(cfg *Config) { cfg.AccessToken = "" },
			wantURL: "http://example.com/socket?room=r1",
			wantOk:  true,
		},
		{
			name:    "websocket url",
			modify:  func(cfg *Config) { cfg.URL = "wss://example.com" },
			wantURL: "wss://example.com?access_token=a.jwt.token&room=r1",
			wantOk:  true,
		},
		{
			name:   "bad url",
			modify: func(cfg *Config) { cfg.URL = "http://example.com/%zz" },
		},
		{
			name:   "no host",
			modify: func(cfg *Config) { cfg.URL = "/socket" },
		},
		{
			name:   "bad scheme",
			modify: func(cfg *Config) { cfg.URL = "ftp://example.com" },
		},
		{
			name:   "no log",
			modify: func(cfg *Config) { cfg.Log = nil },
		},
		{
			name:   "no room",
			modify: func(cfg *Config) { cfg.Room = "" },
		},
		{
			name:   "no reconnect wait",
			modify: func(cfg *Config) { cfg.ReconnectWait = 0 },
		},
		{
			name:   "negative max reconnects",
			modify: func(cfg *Config) { cfg.MaxReconnects = -1 },
		},
	}
	for _, test := range newSocketTests {
		cfg := testConfig()
		if test.modify != nil {
			test.modify(&cfg)
		}
		s, err := cfg.NewSocket()
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("%v: wanted error", test.name)
			}
		case err != nil:
			t.Errorf("%v: unwanted error: %v", test.name, err)
		default:
			if want, got := test.wantURL, s.url.String(); want != got {
				t.Errorf("%v: urls not equal:\nwanted: %v\ngot:    %v", test.name, want, got)
			}
			if len(s.Dialers) != 2 {
				t.Errorf("%v: wanted default dialers, got %v", test.name, s.Dialers)
			}
		}
	}
}

func TestRunTwice(t *testing.T) {
	s, err := testConfig(connDialer()).NewSocket()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = s.Run(ctx)
	require.NoError(t, err)
	_, err = s.Run(ctx)
	assert.Error(t, err)
}

func TestRunJoinsFirst(t *testing.T) {
	conn := newFakeConn()
	var dialed url.URL
	d := connDialer(conn)
	dial := d.DialFunc
	d.DialFunc = func(ctx context.Context, u url.URL) (Conn, error) {
		dialed = u
		return dial(ctx, u)
	}
	failing := &mockDialer{
		DialFunc: func(ctx context.Context, u url.URL) (Conn, error) {
			return nil, errors.New("no websocket")
		},
	}
	s, err := testConfig(failing, d).NewSocket()
	require.NoError(t, err)
	guess, err := message.New(message.SendGuess, message.Guess{Room: "r1", Text: "cat"})
	require.NoError(t, err)
	s.Send(guess) // queued before connecting
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	in, err := s.Run(ctx)
	require.NoError(t, err)
	m := receive(t, in)
	assert.Equal(t, message.Connected, m.Event)
	assert.Equal(t, "r1", dialed.Query().Get("room"))
	join := receive(t, conn.writes)
	assert.Equal(t, message.JoinRoom, join.Event)
	var room message.Room
	require.NoError(t, join.Decode(&room))
	assert.Equal(t, "r1", room.Room)
	assert.Equal(t, message.SendGuess, receive(t, conn.writes).Event)
	chat := message.Message{Event: message.ChatMessage, Data: json.RawMessage(`{"text":"hi"}`)}
	conn.reads <- chat
	assert.Equal(t, chat, receive(t, in))
	cancel()
	expectClosed(t, in)
	assert.NoError(t, s.Err())
	assert.False(t, s.IsRunning())
}

func TestReconnectFlushesQueue(t *testing.T) {
	conn1, conn2 := newFakeConn(), newFakeConn()
	conn1.writeErr = func(m message.Message) error {
		if m.Event != message.JoinRoom {
			return errors.New("broken pipe")
		}
		return nil
	}
	s, err := testConfig(connDialer(conn1, conn2)).NewSocket()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	in, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, message.Connected, receive(t, in).Event)
	assert.Equal(t, message.JoinRoom, receive(t, conn1.writes).Event)
	s.Send(message.Message{Event: message.RequestStrokeHistory})
	assert.Equal(t, message.Connected, receive(t, in).Event, "wanted second connected message after reconnecting")
	assert.Equal(t, message.JoinRoom, receive(t, conn2.writes).Event, "wanted room joined before other messages")
	assert.Equal(t, message.RequestStrokeHistory, receive(t, conn2.writes).Event, "wanted failed message written again")
}

func TestReconnectsExhausted(t *testing.T) {
	dials := 0
	d := &mockDialer{
		DialFunc: func(ctx context.Context, u url.URL) (Conn, error) {
			dials++
			return nil, errors.New("connection refused")
		},
	}
	cfg := testConfig(d)
	cfg.MaxReconnects = 3
	log := logtest.NewLogger()
	cfg.Log = log
	s, err := cfg.NewSocket()
	require.NoError(t, err)
	in, err := s.Run(context.Background())
	require.NoError(t, err)
	expectClosed(t, in)
	assert.Equal(t, 3, dials)
	assert.True(t, errors.Is(s.Err(), ErrReconnectsExhausted))
	assert.True(t, log.Contains("warning", "connection refused"))
}

func TestJoinFailureTriesNextDialer(t *testing.T) {
	closed := false
	broken := &mockConn{
		WriteMessageFunc: func(m message.Message) error {
			return errors.New("reset")
		},
		CloseFunc: func() error {
			closed = true
			return nil
		},
	}
	conn := newFakeConn()
	s, err := testConfig(connDialer(broken), connDialer(conn)).NewSocket()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	in, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, message.Connected, receive(t, in).Event)
	assert.True(t, closed, "wanted connection that could not join closed")
	assert.Equal(t, message.JoinRoom, receive(t, conn.writes).Event)
}

func receive(t *testing.T, c <-chan message.Message) message.Message {
	t.Helper()
	select {
	case m, ok := <-c:
		if !ok {
			t.Fatal("channel closed")
		}
		return m
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
	}
	return message.Message{}
}

func expectClosed(t *testing.T, c <-chan message.Message) {
	t.Helper()
	timeout := time.After(testTimeout)
	for {
		select {
		case _, ok := <-c:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for channel to close")
		}
	}
}
