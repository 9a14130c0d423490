package daemon

import (
	"context"
	"encoding/json"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"imprint/internal/api"
	"imprint/internal/logging"
	"imprint/internal/match"
)

// session owns one duplex connection. Messages are processed sequentially in
// arrival order; the connection survives individual failures and closes only
// when the peer goes away or the daemon shuts down.
type session struct {
	id     string
	conn   *websocket.Conn
	engine *match.Engine
	logger *slog.Logger
}

func newSession(conn *websocket.Conn, engine *match.Engine, logger *slog.Logger) *session {
	id := uuid.New().String()
	return &session{
		id:     id,
		conn:   conn,
		engine: engine,
		logger: logger.With(logging.String(logging.FieldSessionID, id)),
	}
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()
	s.logger.Info("session opened",
		logging.String("remote", s.conn.RemoteAddr().String()),
		logging.String(logging.FieldEventType, "session_open"))

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("session read failed", logging.Error(err))
			} else {
				s.logger.Info("session closed",
					logging.String(logging.FieldEventType, "session_close"))
			}
			return
		}
		s.handleMessage(ctx, data)
	}
}

func (s *session) handleMessage(ctx context.Context, raw []byte) {
	var envelope api.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.logger.Debug("malformed envelope", logging.Error(err))
		s.sendError("malformed envelope: " + err.Error())
		return
	}
	if envelope.Type != api.TypeData {
		// Non-data envelope types are intentionally unacknowledged.
		s.logger.Debug("ignoring envelope", logging.String("type", envelope.Type))
		return
	}

	result, err := s.engine.Submit(ctx, envelope.Data)
	if err != nil {
		s.logger.Warn("submission failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "submission_failed"))
		s.sendError(err.Error())
		return
	}

	out, err := api.FingerprintEnvelope(api.MatchResult{
		Hash:            result.Hash,
		ExactMatchFound: result.ExactMatchFound,
		ClosestMatch:    result.ClosestMatch,
	})
	if err != nil {
		s.logger.Error("encode match result", logging.Error(err))
		s.sendError("internal error encoding result")
		return
	}
	s.send(out)

	s.logger.Debug("submission processed",
		logging.String(logging.FieldHash, result.Hash),
		logging.Bool("exact", result.ExactMatchFound),
		logging.Float64("closest_match", result.ClosestMatch))
}

func (s *session) sendError(message string) {
	s.send(api.ErrorEnvelope(message))
}

func (s *session) send(envelope api.Envelope) {
	if err := s.conn.WriteJSON(envelope); err != nil {
		s.logger.Warn("session write failed", logging.Error(err))
	}
}
