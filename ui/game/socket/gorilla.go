package socket

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jacobpatterson1549/trop-dur/game/message"
)

type (
	// WebSocketDialer creates gorilla websocket connections.
	WebSocketDialer struct {
		// Dialer is the gorilla dialer.  The default dialer is used when it is nil.
		Dialer *websocket.Dialer
	}

	// gorillaConn implements the Conn interface by wrapping a gorilla/websocket connection.
	gorillaConn struct {
		*websocket.Conn
	}
)

// closeWait is the time to write a close message.
const closeWait = time.Second

// Dial connects to the url with its scheme changed to ws or wss.
func (d WebSocketDialer) Dial(ctx context.Context, u url.URL) (Conn, error) {
	u.Scheme = webSocketScheme(u.Scheme)
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	c, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing websocket: %w", err)
	}
	return &gorillaConn{c}, nil
}

// webSocketScheme converts http schemes to websocket schemes.
func webSocketScheme(scheme string) string {
	switch scheme {
	case "http", "ws":
		return "ws"
	default:
		return "wss"
	}
}

// ReadMessage reads the next message from the connection.
func (c *gorillaConn) ReadMessage(m *message.Message) error {
	return c.Conn.ReadJSON(m)
}

// WriteMessage writes the message as json to the connection.
func (c *gorillaConn) WriteMessage(m message.Message) error {
	return c.Conn.WriteJSON(m)
}

// Close writes a close message and closes the connection.
func (c *gorillaConn) Close() error {
	data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.Conn.WriteControl(websocket.CloseMessage, data, time.Now().Add(closeWait))
	return c.Conn.Close()
}
