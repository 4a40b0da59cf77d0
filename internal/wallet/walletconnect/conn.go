package walletconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var errConnClosed = errors.New("bridge connection closed")

// conn wraps the bridge websocket. Writes go through a buffered channel
// drained by a single write loop.
type conn struct {
	ws     *websocket.Conn
	send   chan []byte
	once   sync.Once
	closed chan struct{}
}

// bridgeSocketURL maps the http(s) bridge address to its websocket endpoint.
func bridgeSocketURL(bridge string) (string, error) {
	u, err := url.Parse(bridge)
	if err != nil {
		return "", fmt.Errorf("parse bridge url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported bridge scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func dial(ctx context.Context, dialer *websocket.Dialer, bridge string) (*conn, error) {
	target, err := bridgeSocketURL(bridge)
	if err != nil {
		return nil, err
	}
	ws, _, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge: %w", err)
	}
	return &conn{
		ws:     ws,
		send:   make(chan []byte, 32),
		closed: make(chan struct{}),
	}, nil
}

// start runs the read and write loops. handle is called from the read loop.
func (c *conn) start(handle func(socketMessage)) {
	go c.writeLoop()
	go c.readLoop(handle)
}

func (c *conn) done() <-chan struct{} { return c.closed }

func (c *conn) write(msg socketMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.closed:
		return errConnClosed
	case c.send <- b:
		return nil
	default:
		c.close()
		return errors.New("bridge send buffer exceeded")
	}
}

func (c *conn) subscribe(topic string) error {
	return c.write(socketMessage{Topic: topic, Type: typeSub, Silent: true})
}

// closeAfterFlush closes the socket once everything queued so far is written.
func (c *conn) closeAfterFlush() {
	select {
	case <-c.closed:
	case c.send <- nil:
	}
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *conn) readLoop(handle func(socketMessage)) {
	defer c.close()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg socketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		handle(msg)
	}
}

func (c *conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			if msg == nil {
				c.close()
				return
			}
			if err := c.writeFrame(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.writeFrame(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *conn) writeFrame(kind int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(kind, payload)
}
