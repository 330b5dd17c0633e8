package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/snakearena/pkg/protocol"
)

// Server is the HTTP/WebSocket front of the arena.
type Server struct {
	config   *ServerConfig
	hub      *Hub
	metrics  *Metrics
	router   chi.Router
	upgrader websocket.Upgrader

	httpServer *http.Server

	startOnce sync.Once
	hubDone   chan struct{}
	cancelHub context.CancelFunc

	logger *slog.Logger
}

// New creates a new Server with the given configuration. Nil uses DefaultServerConfig.
func New(config *ServerConfig) *Server {
	config = config.withDefaults()
	if config.Registry == nil {
		config.Registry = newRegistry()
	}

	logger := config.Logger.With("component", "server")
	metrics := NewMetrics(MetricsConfig{Registry: config.Registry})

	s := &Server{
		config:  config,
		metrics: metrics,
		hub: NewHub(HubConfig{
			World:      config.World,
			InboxSize:  config.InboxSize,
			Metrics:    metrics,
			TracerName: config.TracerName,
			Logger:     config.Logger,
		}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
			Subprotocols:    protocol.Subprotocols(),
		},
		hubDone: make(chan struct{}),
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Get("/api/status", s.handleStatus)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the hub in the background. It is safe to call more than once.
func (s *Server) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancelHub = context.WithCancel(ctx)
		go func() {
			defer close(s.hubDone)
			s.hub.Run(ctx)
		}()
	})
}

// HandleWebSocket upgrades the request and starts a session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("websocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		return
	}

	codec, err := protocol.CodecByName(conn.Subprotocol())
	if err != nil {
		s.logger.Warn("unsupported codec", "error", err)
		conn.Close()
		return
	}

	session := newSession(conn, codec, s.hub, s.config.SessionConfig, s.metrics, s.logger)
	if err := s.hub.Connect(session); err != nil {
		s.logger.Warn("hub not accepting sessions", "error", err)
		conn.Close()
		return
	}
	session.logger.Info("session connected", "remote_addr", r.RemoteAddr)
	session.Start()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.hub.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

// Run starts the hub and listens until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx)

	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address, "origin", s.config.AllowedOrigin)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.Shutdown(context.Background())
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops the HTTP server and the hub. Every session is closed.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	var err error
	if s.httpServer != nil {
		if err = s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
	}

	if s.cancelHub != nil {
		s.cancelHub()
		select {
		case <-s.hubDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.logger.Info("server shutdown complete")
	return err
}

// Hub returns the dispatcher.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Config returns the server configuration with defaults applied.
func (s *Server) Config() *ServerConfig {
	return s.config
}
