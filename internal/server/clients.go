// ABOUTME: Connected client bookkeeping for the drawing server
// ABOUTME: Registration, the per-client writer and connection change notifications
package server

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/xyscope/xyscope/internal/protocol"
)

const (
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Client is a connected control client
type Client struct {
	ID   string
	Name string
	Conn *websocket.Conn

	sendChan chan protocol.Message
}

// send queues msg without blocking the read loop
func (c *Client) send(msg protocol.Message) error {
	select {
	case c.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

// writeLoop writes queued replies and keeps the connection alive with pings
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.sendChan:
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.Conn.WriteJSON(msg); err != nil {
				log.Printf("Error writing to %s: %v", c.Name, err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// register adds client unless its ID is already connected
func (s *Server) register(client *Client) bool {
	s.clientsMu.Lock()
	if _, exists := s.clients[client.ID]; exists {
		s.clientsMu.Unlock()
		return false
	}
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	s.notifyClients()
	return true
}

func (s *Server) unregister(client *Client) {
	s.clientsMu.Lock()
	delete(s.clients, client.ID)
	s.clientsMu.Unlock()
	close(client.sendChan)

	log.Printf("Client disconnected: %s", client.Name)
	s.notifyClients()
}

// ClientNames returns the names of connected clients, sorted
func (s *Server) ClientNames() []string {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	names := make([]string, 0, len(s.clients))
	for _, client := range s.clients {
		names = append(names, client.Name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) notifyClients() {
	if s.config.OnClients != nil {
		s.config.OnClients(s.ClientNames())
	}
}
