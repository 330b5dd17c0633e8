package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/snakearena/pkg/world"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// Timeouts

	// ReadTimeout is the maximum time to wait for a message or pong from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Must be shorter than ReadTimeout.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// SendQueueSize is the number of outbound frames buffered per session.
	// A session whose queue is full is closed.
	// Default: 256.
	SendQueueSize int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024, // 64KB
		SendQueueSize:     256,
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (c *SessionConfig) withDefaults() *SessionConfig {
	defaults := DefaultSessionConfig()
	if c == nil {
		return defaults
	}
	out := c.Clone()
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HeartbeatInterval <= 0 || out.HeartbeatInterval >= out.ReadTimeout {
		out.HeartbeatInterval = out.ReadTimeout * 9 / 10
	}
	if out.MaxMessageSize <= 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.SendQueueSize <= 0 {
		out.SendQueueSize = defaults.SendQueueSize
	}
	return out
}

// ServerConfig holds configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	// Address is the address to listen on.
	// Default: ":30045".
	Address string

	// AllowedOrigin is the frontend origin permitted to open the game channel.
	// "*" allows every origin. Requests without an Origin header are always allowed.
	// Default: "http://localhost:3000".
	AllowedOrigin string

	// CheckOrigin overrides the AllowedOrigin check when set.
	CheckOrigin func(r *http.Request) bool

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// SessionConfig is the configuration for individual sessions.
	// Default: DefaultSessionConfig().
	SessionConfig *SessionConfig

	// World holds the food and spawn rules.
	// Default: world.DefaultConfig().
	World *world.Config

	// InboxSize is the buffer of the hub's command channel.
	// Default: 1024.
	InboxSize int

	// Server lifecycle

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds the time to read request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// Observability

	// Registry receives the arena metrics and backs /metrics.
	// Default: a fresh prometheus.Registry with Go and process collectors.
	Registry *prometheus.Registry

	// TracerName names the OpenTelemetry tracer used for dispatch spans.
	// Default: "snakearena".
	TracerName string

	// Logger is the base logger.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":30045",
		AllowedOrigin:     "http://localhost:3000",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		SessionConfig:     DefaultSessionConfig(),
		World:             world.DefaultConfig(),
		InboxSize:         1024,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		TracerName:        "snakearena",
	}
}

// withDefaults fills in defaults for any unset fields.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		c = defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.AllowedOrigin == "" {
		out.AllowedOrigin = defaults.AllowedOrigin
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = AllowOrigin(out.AllowedOrigin)
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	out.SessionConfig = out.SessionConfig.withDefaults()
	if out.World == nil {
		out.World = defaults.World
	}
	if out.InboxSize <= 0 {
		out.InboxSize = defaults.InboxSize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.TracerName == "" {
		out.TracerName = defaults.TracerName
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// AllowOrigin returns an origin check that accepts origin, requests without an Origin
// header, and every origin when origin is "*". The comparison ignores case and a
// trailing slash.
func AllowOrigin(origin string) func(r *http.Request) bool {
	want := normalizeOrigin(origin)
	return func(r *http.Request) bool {
		got := r.Header.Get("Origin")
		if got == "" || want == "*" {
			return true
		}
		return normalizeOrigin(got) == want
	}
}

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}
