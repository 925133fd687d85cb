// ABOUTME: WebSocket client for the xyscope drawing protocol
// ABOUTME: Handles connection, handshake and request/reply exchange
package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xyscope/xyscope/internal/discovery"
	"github.com/xyscope/xyscope/internal/protocol"
)

// ErrNotConnected is returned by requests on a closed client
var ErrNotConnected = errors.New("not connected")

// Config holds client configuration
type Config struct {
	ServerAddr string
	ClientID   string
	Name       string

	// Timeout bounds the handshake and each request (default: 5s)
	Timeout time.Duration
}

// Client sends drawing commands to a server. Requests are serialized; each
// waits for its reply.
type Client struct {
	config Config
	conn   *websocket.Conn
	hello  protocol.ServerHello
	nextID uint64
	mu     sync.Mutex
}

// NewClient creates a new client. An empty ClientID gets a random one.
func NewClient(config Config) *Client {
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	return &Client{config: config}
}

// Connect dials the server and performs the handshake
func (c *Client) Connect(ctx context.Context) error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: discovery.Path}
	log.Printf("Connecting to %s", u.String())

	dialCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn

	if err := c.handshake(); err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("handshake failed: %w", err)
	}
	return nil
}

// handshake sends client/hello and waits for server/hello
func (c *Client) handshake() error {
	hello := protocol.Message{
		Type: protocol.TypeClientHello,
		Payload: protocol.ClientHello{
			ClientID: c.config.ClientID,
			Name:     c.config.Name,
			Version:  protocol.Version,
		},
	}

	reply, err := c.exchange(hello)
	if err != nil {
		return err
	}
	if reply.Type != protocol.TypeServerHello {
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, reply.Type)
	}
	if err := protocol.DecodePayload(reply.Payload, &c.hello); err != nil {
		return err
	}

	log.Printf("Handshake complete with server %s (session %s)", c.hello.Name, c.hello.SessionID)
	return nil
}

// exchange writes msg and reads the next message. A transport error leaves
// the connection unusable, so it is closed. Callers hold mu.
func (c *Client) exchange(msg protocol.Message) (protocol.Message, error) {
	var reply protocol.Message

	deadline := time.Now().Add(c.config.Timeout)
	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(msg); err != nil {
		c.drop()
		return reply, fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}

	c.conn.SetReadDeadline(deadline)
	if err := c.conn.ReadJSON(&reply); err != nil {
		c.drop()
		return reply, fmt.Errorf("failed to read reply to %s: %w", msg.Type, err)
	}

	if reply.Type == protocol.TypeError {
		var remote protocol.Error
		if err := protocol.DecodePayload(reply.Payload, &remote); err != nil {
			return reply, err
		}
		return reply, &remote
	}
	return reply, nil
}

func (c *Client) drop() {
	c.conn.Close()
	c.conn = nil
}

// request sends one command and waits for its ack
func (c *Client) request(msgType string, payload interface{}) (protocol.Ack, error) {
	var ack protocol.Ack

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ack, ErrNotConnected
	}

	c.nextID++
	id := c.nextID
	reply, err := c.exchange(protocol.Message{ID: id, Type: msgType, Payload: payload})
	if err != nil {
		return ack, err
	}
	if reply.Type != protocol.TypeAck || reply.ID != id {
		return ack, fmt.Errorf("unexpected reply %s (id %d) to %s (id %d)", reply.Type, reply.ID, msgType, id)
	}
	if err := protocol.DecodePayload(reply.Payload, &ack); err != nil {
		return ack, err
	}
	return ack, nil
}

// DrawLine appends a line to the server's drawing
func (c *Client) DrawLine(x1, y1, x2, y2 uint) error {
	_, err := c.request(protocol.TypeDrawLine, protocol.DrawLine{X1: x1, Y1: y1, X2: x2, Y2: y2})
	return err
}

// DrawPoint appends a dwell point
func (c *Client) DrawPoint(x, y, dwell uint) error {
	_, err := c.request(protocol.TypeDrawPoint, protocol.DrawPoint{X: x, Y: y, Dwell: dwell})
	return err
}

// Clear erases the drawing
func (c *Client) Clear() error {
	_, err := c.request(protocol.TypeDrawClear, nil)
	return err
}

// Start begins playback. A zero rate uses the server's default.
func (c *Client) Start(sampleRate int) error {
	_, err := c.request(protocol.TypePlaybackStart, protocol.PlaybackStart{SampleRate: sampleRate})
	return err
}

// Stop ends playback
func (c *Client) Stop() error {
	_, err := c.request(protocol.TypePlaybackStop, nil)
	return err
}

// Stats fetches the session counters
func (c *Client) Stats() (protocol.SessionStats, error) {
	ack, err := c.request(protocol.TypeSessionStats, nil)
	if err != nil {
		return protocol.SessionStats{}, err
	}
	if ack.Stats == nil {
		return protocol.SessionStats{}, errors.New("stats missing from reply")
	}
	return *ack.Stats, nil
}

// Server returns the hello received from the server
func (c *Client) Server() protocol.ServerHello {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hello
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	log.Printf("Connection closed")
	return err
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}
