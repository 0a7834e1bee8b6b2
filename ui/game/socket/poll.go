package socket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/trop-dur/game/message"
)

type (
	// PollDialer creates connections that long-poll the server over http.
	PollDialer struct {
		// Client makes the requests.  The default client is used when it is nil.
		Client *http.Client
	}

	// pollConn is a long-poll connection identified by a session id.
	// Each GET returns the messages the server has for the session, each POST sends messages.
	pollConn struct {
		client  *http.Client
		url     string
		ctx     context.Context
		cancel  context.CancelFunc
		pending []message.Message
	}
)

// Dial creates a connection to the url with its scheme changed to http or https.
// No request is made until the connection is used.
func (d PollDialer) Dial(ctx context.Context, u url.URL) (Conn, error) {
	u.Scheme = httpScheme(u.Scheme)
	q := u.Query()
	q.Set("transport", "polling")
	q.Set("sid", uuid.NewString())
	u.RawQuery = q.Encode()
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithCancel(ctx)
	c := pollConn{
		client: client,
		url:    u.String(),
		ctx:    ctx,
		cancel: cancel,
	}
	return &c, nil
}

// httpScheme converts websocket schemes to http schemes.
func httpScheme(scheme string) string {
	switch scheme {
	case "http", "ws":
		return "http"
	default:
		return "https"
	}
}

// ReadMessage polls the server until it has a message.
func (c *pollConn) ReadMessage(m *message.Message) error {
	for len(c.pending) == 0 {
		messages, err := c.poll() // BLOCKING
		if err != nil {
			return err
		}
		c.pending = messages
	}
	*m = c.pending[0]
	c.pending = c.pending[1:]
	return nil
}

// poll gets the messages the server has for the session.  The server responds with an empty array if it has none.
func (c *pollConn) poll() ([]message.Message, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating poll request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("polling: %w", err)
	}
	var messages []message.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, fmt.Errorf("decoding polled messages: %w", err)
	}
	return messages, nil
}

// WriteMessage posts the message to the server.
func (c *pollConn) WriteMessage(m message.Message) error {
	b, err := json.Marshal([]message.Message{m})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("creating post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return checkStatus(resp)
}

// Close cancels any outstanding requests.
func (c *pollConn) Close() error {
	c.cancel()
	return nil
}

// checkStatus returns an error if the response is not successful.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected response status: %v", resp.Status)
	}
	return nil
}
