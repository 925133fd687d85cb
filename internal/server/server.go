// ABOUTME: Remote drawing server for xyscope
// ABOUTME: Accepts WebSocket clients and runs their commands on one render session
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xyscope/xyscope/internal/discovery"
	"github.com/xyscope/xyscope/internal/protocol"
	"github.com/xyscope/xyscope/pkg/scope"
)

// ErrStopped is returned for commands submitted after Stop
var ErrStopped = errors.New("server stopped")

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
	Debug      bool

	// SampleRate is used when playback/start omits one and by Toggle
	SampleRate int

	// OnClients is called with the connected client names after every
	// connect and disconnect
	OnClients func(names []string)
}

// Server owns a render session and serves the drawing protocol
type Server struct {
	config   Config
	serverID string
	session  *scope.Session

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// Client management
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// Every session call runs on the producer goroutine
	jobs         chan job
	producerDone chan struct{}

	// mDNS discovery
	mdnsManager *discovery.Manager

	// Control
	stopChan   chan struct{}
	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

type job struct {
	fn   func(*scope.Session) error
	done chan error
}

// New creates a server around session and starts its producer goroutine.
// The server takes ownership of the session and closes it on Stop.
func New(config Config, session *scope.Session) *Server {
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		session:  session,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local network tool: accept any origin but note browsers
				if origin := r.Header.Get("Origin"); origin != "" {
					log.Printf("Warning: accepting WebSocket from origin: %s", origin)
				}
				return true
			},
		},
		clients:      make(map[string]*Client),
		jobs:         make(chan job),
		producerDone: make(chan struct{}),
		stopChan:     make(chan struct{}),
	}
	s.mux.HandleFunc(discovery.Path, s.handleWebSocket)

	go s.produce()
	return s
}

// Handler returns the HTTP handler serving the WebSocket endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves HTTP until Stop is called or the listener fails
func (s *Server) Start() error {
	log.Printf("Server starting: %s (ID: %s, session: %s)", s.config.Name, s.serverID, s.session.ID())

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})

		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		} else {
			log.Printf("mDNS advertisement started")
		}
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("WebSocket server listening on %s%s", addr, discovery.Path)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
		s.Stop()
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop refuses new connections and commands, then closes the session
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.shutdownMu.Lock()
		s.isShutdown = true
		s.shutdownMu.Unlock()
		close(s.stopChan)
	})
}

// Wait blocks until the session is closed and client goroutines are done
func (s *Server) Wait() {
	<-s.producerDone
	s.wg.Wait()
}

// produce runs session calls one at a time until Stop
func (s *Server) produce() {
	defer close(s.producerDone)

	for {
		select {
		case j := <-s.jobs:
			j.done <- j.fn(s.session)
		case <-s.stopChan:
			if err := s.session.Close(); err != nil {
				log.Printf("Error closing session: %v", err)
			}
			return
		}
	}
}

// do runs fn on the producer goroutine and waits for it
func (s *Server) do(fn func(*scope.Session) error) error {
	j := job{fn: fn, done: make(chan error, 1)}
	select {
	case s.jobs <- j:
		return <-j.done
	case <-s.stopChan:
		return ErrStopped
	}
}

// Stats returns the session counters. Safe to call from any goroutine.
func (s *Server) Stats() scope.Stats {
	return s.session.Stats()
}

// Toggle starts playback at the configured rate, or stops it if running
func (s *Server) Toggle() error {
	return s.do(func(session *scope.Session) error {
		if session.State() == scope.StateSealed {
			return session.Stop()
		}
		return session.Start(s.config.SampleRate)
	})
}

// Reset clears the drawing
func (s *Server) Reset() error {
	return s.do(func(session *scope.Session) error {
		return session.Clear()
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)
	s.handleConnection(conn)
}

// handleConnection runs the handshake and then the request loop of a client
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	hello, err := readHello(conn)
	if err != nil {
		log.Printf("Handshake failed: %v", err)
		writeError(conn, protocol.Message{Type: protocol.TypeClientHello}, protocol.CodeBadRequest, err.Error())
		return
	}

	log.Printf("Client hello: %s (ID: %s, version %d)", hello.Name, hello.ClientID, hello.Version)

	client := &Client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan protocol.Message, 100),
	}

	if !s.register(client) {
		log.Printf("Client ID %s already connected, rejecting duplicate", hello.ClientID)
		writeError(conn, protocol.Message{Type: protocol.TypeClientHello}, protocol.CodeBadRequest, "client ID already connected")
		return
	}
	defer s.unregister(client)

	serverHello := protocol.Message{
		Type: protocol.TypeServerHello,
		Payload: protocol.ServerHello{
			ServerID:  s.serverID,
			Name:      s.config.Name,
			Version:   protocol.Version,
			SessionID: s.session.ID(),
		},
	}
	if err := client.send(serverHello); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		client.writeLoop()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Error unmarshaling message from %s: %v", client.Name, err)
			_ = client.send(errorReply(protocol.Message{}, protocol.CodeBadRequest, err.Error()))
			continue
		}

		if s.config.Debug {
			log.Printf("[DEBUG] %s -> %s (id %d)", client.Name, msg.Type, msg.ID)
		}

		if err := client.send(s.Execute(msg)); err != nil {
			log.Printf("Dropping reply to %s: %v", client.Name, err)
		}
	}
}

func readHello(conn *websocket.Conn) (protocol.ClientHello, error) {
	var hello protocol.ClientHello

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return hello, fmt.Errorf("failed to read client/hello: %w", err)
	}

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return hello, fmt.Errorf("failed to parse client/hello: %w", err)
	}
	if msg.Type != protocol.TypeClientHello {
		return hello, fmt.Errorf("expected %s, got %s", protocol.TypeClientHello, msg.Type)
	}
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		return hello, err
	}
	if hello.ClientID == "" || hello.Name == "" {
		return hello, errors.New("client/hello requires client_id and name")
	}
	return hello, nil
}

func writeError(conn *websocket.Conn, req protocol.Message, code, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteJSON(errorReply(req, code, message)); err != nil {
		log.Printf("Error writing error reply: %v", err)
	}
}
