package client

import (
	"log/slog"
	"time"

	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/world"
)

// Defaults for the local simulation.
const (
	DefaultServerURL      = "ws://localhost:30045/ws"
	DefaultTickInterval   = 30 * time.Millisecond
	DefaultSpeed          = 2.0
	DefaultReportEvery    = 1
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
)

// Config configures a Client.
type Config struct {
	// ServerURL is the websocket endpoint of the game channel.
	// Default: "ws://localhost:30045/ws".
	ServerURL string

	// Codec is the subprotocol to request.
	// Default: protocol.CodecJSON.
	Codec string

	// Name is the display name sent on join.
	Name string

	// TickInterval is the simulation period. Ticks are not drift compensated.
	// Default: 30ms.
	TickInterval time.Duration

	// Speed is the distance the head moves per tick.
	// Default: 2.
	Speed float64

	// ReportEvery is the number of ticks between movement reports. 0 disables reporting.
	// Default: 1.
	ReportEvery int

	// Viewport is the camera's size in world units.
	// Default: 800 x 600.
	Viewport world.Bounds

	// World holds the spawn point, bounds and eat radius.
	// Default: world.DefaultConfig().
	World *world.Config

	// Logger is the base logger.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the arena defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    DefaultServerURL,
		Codec:        protocol.CodecJSON,
		TickInterval: DefaultTickInterval,
		Speed:        DefaultSpeed,
		ReportEvery:  DefaultReportEvery,
		Viewport:     world.Bounds{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		World:        world.DefaultConfig(),
	}
}

// withDefaults fills zero fields. ReportEvery is kept as given since 0 is meaningful.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		d.Logger = slog.Default()
		return d
	}
	out := *c
	if out.ServerURL == "" {
		out.ServerURL = d.ServerURL
	}
	if out.Codec == "" {
		out.Codec = d.Codec
	}
	if out.TickInterval <= 0 {
		out.TickInterval = d.TickInterval
	}
	if out.Speed <= 0 {
		out.Speed = d.Speed
	}
	if out.ReportEvery < 0 {
		out.ReportEvery = 0
	}
	if out.Viewport.Width <= 0 || out.Viewport.Height <= 0 {
		out.Viewport = d.Viewport
	}
	if out.World == nil {
		out.World = d.World
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
