package server

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	arenaerrors "github.com/vango-dev/snakearena/internal/errors"
	"github.com/vango-dev/snakearena/pkg/protocol"
)

// Session is one websocket connection. Its identity is fresh for every connection;
// sessions are never resumed.
type Session struct {
	id     string
	conn   *websocket.Conn
	codec  protocol.Codec
	hub    *Hub
	config *SessionConfig

	// send holds encoded frames for WriteLoop. It is never closed.
	send chan []byte
	done chan struct{}

	closed    atomic.Bool
	createdAt time.Time

	metrics *Metrics
	logger  *slog.Logger
}

func newSession(conn *websocket.Conn, codec protocol.Codec, hub *Hub, config *SessionConfig, metrics *Metrics, logger *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:        id,
		conn:      conn,
		codec:     codec,
		hub:       hub,
		config:    config,
		send:      make(chan []byte, config.SendQueueSize),
		done:      make(chan struct{}),
		createdAt: time.Now(),
		metrics:   metrics,
		logger:    logger.With("session_id", id, "codec", codec.Name()),
	}
}

// ID returns the connection identity.
func (s *Session) ID() string { return s.id }

// Codec returns the negotiated codec.
func (s *Session) Codec() protocol.Codec { return s.codec }

// Enqueue queues a frame for WriteLoop without blocking.
func (s *Session) Enqueue(frame []byte) error {
	if s.IsClosed() {
		return NewSessionError(s.id, "enqueue", ErrSessionClosed)
	}
	select {
	case s.send <- frame:
		return nil
	default:
		return NewSessionError(s.id, "enqueue", ErrSendQueueFull)
	}
}

// Close signals both loops to stop. WriteLoop sends the close frame and releases the
// connection.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
}

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Start runs the read and write loops.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.WriteLoop()
}

// ReadLoop decodes inbound frames and posts them to the hub. When the connection ends it
// reports the disconnect, which the hub treats as an implicit leave.
func (s *Session) ReadLoop() {
	defer func() {
		s.Close()
		if err := s.hub.Disconnect(s.id); err != nil {
			s.logger.Debug("disconnect not delivered", "error", err)
		}
		s.logger.Info("session ended", "duration", time.Since(s.createdAt).Round(time.Millisecond))
	}()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		msg, err := s.decode(data)
		if err != nil {
			s.metrics.decodeErrors.WithLabelValues(arenaerrors.Code(err)).Inc()
			s.logger.Warn("dropping frame", "error", err)
			continue
		}
		if err := s.hub.Deliver(s.id, msg); err != nil {
			return
		}
	}
}

func (s *Session) decode(data []byte) (protocol.Message, error) {
	env, err := s.codec.DecodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	return protocol.DecodeInbound(env)
}

// WriteLoop writes queued frames and heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	messageType := websocket.TextMessage
	if s.codec.Binary() {
		messageType = websocket.BinaryMessage
	}

	for {
		select {
		case frame := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteMessage(messageType, frame); err != nil {
				s.logger.Debug("write error", "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping error", "error", err)
				s.Close()
				return
			}

		case <-s.done:
			s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			return
		}
	}
}
