// ABOUTME: xyscope remote drawing protocol message definitions
// ABOUTME: Defines the JSON envelope, request payloads and replies
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol version exchanged in the hello messages
const Version = 1

// Message types
const (
	TypeClientHello   = "client/hello"
	TypeServerHello   = "server/hello"
	TypeDrawLine      = "draw/line"
	TypeDrawPoint     = "draw/point"
	TypeDrawClear     = "draw/clear"
	TypePlaybackStart = "playback/start"
	TypePlaybackStop  = "playback/stop"
	TypeSessionStats  = "session/stats"
	TypeAck           = "server/ack"
	TypeError         = "server/error"
)

// Error codes carried by server/error
const (
	CodeIllegalMutation = "illegal_mutation"
	CodeAllocation      = "allocation"
	CodeAlreadyPlaying  = "already_playing"
	CodeNotPlaying      = "not_playing"
	CodeSink            = "sink"
	CodeBadRequest      = "bad_request"
	CodeClosed          = "closed"
)

// Message is the top-level wrapper for all protocol messages. Replies carry
// the ID of the request they answer.
type Message struct {
	ID      uint64      `json:"id,omitempty"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID  string `json:"server_id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
}

// DrawLine requests a line between two points of the 0..200 square
type DrawLine struct {
	X1 uint `json:"x1"`
	Y1 uint `json:"y1"`
	X2 uint `json:"x2"`
	Y2 uint `json:"y2"`
}

// DrawPoint requests a dot held for Dwell extra frames
type DrawPoint struct {
	X     uint `json:"x"`
	Y     uint `json:"y"`
	Dwell uint `json:"dwell"`
}

// PlaybackStart seals the drawing and starts the sink
type PlaybackStart struct {
	SampleRate int `json:"sample_rate"`
}

// SessionStats reports the state of the server's render session
type SessionStats struct {
	SessionID    string `json:"session_id"`
	State        string `json:"state"`
	Frames       int    `json:"frames"`
	Capacity     int    `json:"capacity"`
	SampleRate   int    `json:"sample_rate"`
	FramesPlayed uint64 `json:"frames_played"`
	Loops        uint64 `json:"loops"`
}

// Ack confirms a request. Stats is set for session/stats.
type Ack struct {
	Request string        `json:"request"`
	Stats   *SessionStats `json:"stats,omitempty"`
}

// Error reports a failed request
type Error struct {
	Request string `json:"request"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s: %s", e.Request, e.Code, e.Message)
}

// DecodePayload converts a generically decoded payload into v
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
