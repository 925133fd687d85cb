// ABOUTME: Request handling for the drawing protocol
// ABOUTME: Maps protocol messages to session calls and session errors to reply codes
package server

import (
	"errors"

	"github.com/xyscope/xyscope/internal/protocol"
	"github.com/xyscope/xyscope/pkg/scope"
	"github.com/xyscope/xyscope/pkg/sink"
)

// Execute runs one request on the producer goroutine and returns the reply
func (s *Server) Execute(msg protocol.Message) protocol.Message {
	var stats *protocol.SessionStats

	err := s.do(func(session *scope.Session) error {
		switch msg.Type {
		case protocol.TypeDrawLine:
			var line protocol.DrawLine
			if err := protocol.DecodePayload(msg.Payload, &line); err != nil {
				return badRequest{err}
			}
			return session.DrawLine(line.X1, line.Y1, line.X2, line.Y2)

		case protocol.TypeDrawPoint:
			var point protocol.DrawPoint
			if err := protocol.DecodePayload(msg.Payload, &point); err != nil {
				return badRequest{err}
			}
			return session.DrawPoint(point.X, point.Y, point.Dwell)

		case protocol.TypeDrawClear:
			return session.Clear()

		case protocol.TypePlaybackStart:
			var start protocol.PlaybackStart
			if msg.Payload != nil {
				if err := protocol.DecodePayload(msg.Payload, &start); err != nil {
					return badRequest{err}
				}
			}
			if start.SampleRate == 0 {
				start.SampleRate = s.config.SampleRate
			}
			return session.Start(start.SampleRate)

		case protocol.TypePlaybackStop:
			return session.Stop()

		case protocol.TypeSessionStats:
			stats = toProtocolStats(session.Stats())
			return nil

		default:
			return badRequest{errors.New("unknown message type " + msg.Type)}
		}
	})

	if err != nil {
		return errorReply(msg, errorCode(err), err.Error())
	}
	return protocol.Message{
		ID:      msg.ID,
		Type:    protocol.TypeAck,
		Payload: protocol.Ack{Request: msg.Type, Stats: stats},
	}
}

// badRequest marks errors caused by a malformed request
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

// errorCode classifies an error for server/error replies
func errorCode(err error) string {
	var br badRequest
	var serr *sink.Error

	switch {
	case errors.As(err, &br):
		return protocol.CodeBadRequest
	case errors.Is(err, scope.ErrIllegalMutationWhilePlaying):
		return protocol.CodeIllegalMutation
	case errors.Is(err, scope.ErrAllocation):
		return protocol.CodeAllocation
	case errors.Is(err, scope.ErrAlreadyPlaying):
		return protocol.CodeAlreadyPlaying
	case errors.Is(err, scope.ErrNotPlaying):
		return protocol.CodeNotPlaying
	case errors.As(err, &serr), errors.Is(err, scope.ErrNoSink):
		return protocol.CodeSink
	case errors.Is(err, scope.ErrClosed), errors.Is(err, ErrStopped):
		return protocol.CodeClosed
	default:
		return protocol.CodeBadRequest
	}
}

func errorReply(req protocol.Message, code, message string) protocol.Message {
	return protocol.Message{
		ID:   req.ID,
		Type: protocol.TypeError,
		Payload: protocol.Error{
			Request: req.Type,
			Code:    code,
			Message: message,
		},
	}
}

func toProtocolStats(st scope.Stats) *protocol.SessionStats {
	return &protocol.SessionStats{
		SessionID:    st.ID,
		State:        st.State.String(),
		Frames:       st.Frames,
		Capacity:     st.Capacity,
		SampleRate:   st.SampleRate,
		FramesPlayed: st.FramesPlayed,
		Loops:        st.Loops,
	}
}
