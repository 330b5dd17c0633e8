package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/snakearena/internal/errors"
	"github.com/vango-dev/snakearena/pkg/client"
	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/server"
	"github.com/vango-dev/snakearena/pkg/world"
)

const (
	// ConfigFileName is looked up in the working directory when no path is given.
	ConfigFileName = "snakearena.yaml"

	// EnvFileName is loaded from the working directory when present.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ARENA_"
)

// Config is the complete snakearena configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	World  WorldConfig  `yaml:"world"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`

	// path is where the YAML was read from, if anywhere.
	path string
}

// ServerConfig configures `snakearena serve`.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// AllowedOrigin is the frontend origin allowed to open the game channel.
	AllowedOrigin string `yaml:"allowed_origin"`

	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`

	// MaxMessageSize bounds inbound frames in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// SendQueue is the per-connection outbound buffer in frames.
	SendQueue int `yaml:"send_queue"`
}

// WorldConfig holds the shared game rules.
type WorldConfig struct {
	FoodCount int     `yaml:"food_count"`
	FoodMaxX  int     `yaml:"food_max_x"`
	FoodMaxY  int     `yaml:"food_max_y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	SpawnX    float64 `yaml:"spawn_x"`
	SpawnY    float64 `yaml:"spawn_y"`
	EatRadius float64 `yaml:"eat_radius"`
}

// ClientConfig configures `snakearena play` and `snakearena bot`.
type ClientConfig struct {
	ServerURL      string        `yaml:"server_url"`
	Codec          string        `yaml:"codec"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	Speed          float64       `yaml:"speed"`
	ReportEvery    int           `yaml:"report_every"`
	ViewportWidth  float64       `yaml:"viewport_width"`
	ViewportHeight float64       `yaml:"viewport_height"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":30045",
			AllowedOrigin:     "http://localhost:3000",
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      10 * time.Second,
			HeartbeatInterval: 30 * time.Second,
			MaxMessageSize:    64 * 1024,
			SendQueue:         256,
		},
		World: WorldConfig{
			FoodCount: world.DefaultFoodCount,
			FoodMaxX:  world.DefaultFoodMaxX,
			FoodMaxY:  world.DefaultFoodMaxY,
			Width:     world.DefaultWorldWidth,
			Height:    world.DefaultWorldHeight,
			SpawnX:    world.DefaultSpawnX,
			SpawnY:    world.DefaultSpawnY,
			EatRadius: world.DefaultEatRadius,
		},
		Client: ClientConfig{
			ServerURL:      client.DefaultServerURL,
			Codec:          protocol.CodecJSON,
			TickInterval:   client.DefaultTickInterval,
			Speed:          client.DefaultSpeed,
			ReportEvery:    client.DefaultReportEvery,
			ViewportWidth:  client.DefaultViewportWidth,
			ViewportHeight: client.DefaultViewportHeight,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path, the .env file in
// the working directory and ARENA_* environment variables, in that order of precedence.
// An empty path uses snakearena.yaml when it exists.
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, EnvFileName)
}

// LoadWithEnvFile is Load with an explicit .env path. An empty envFile skips it.
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	cfg := New()

	if path == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			path = ConfigFileName
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.New("E203").
				WithDetailf("parse %s", envFile).
				Wrap(err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New("E202").WithDetail(path).Wrap(err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.New("E202").
			WithDetail("Failed to parse " + filepath.Base(path)).
			WithSuggestion("Check that the file is valid YAML; durations look like 30ms or 10s").
			Wrap(err)
	}
	c.path = path
	return nil
}

// applyEnv overrides fields from ARENA_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Server.Addr)
	str("ALLOWED_ORIGIN", &c.Server.AllowedOrigin)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("SERVER_URL", &c.Client.ServerURL)
	str("CODEC", &c.Client.Codec)

	if v, ok := lookup(EnvPrefix + "TICK_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("E203").WithDetailf("%sTICK_INTERVAL=%q", EnvPrefix, v).Wrap(err)
		}
		c.Client.TickInterval = d
	}
	if v, ok := lookup(EnvPrefix + "FOOD_COUNT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E203").WithDetailf("%sFOOD_COUNT=%q", EnvPrefix, v).Wrap(err)
		}
		c.World.FoodCount = n
	}
	return nil
}

// Validate checks every value that has a constrained range.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return errors.New("E201").WithDetailf(field+": "+format, args...)
	}

	if c.Server.Addr == "" {
		return invalid("server.addr", "must not be empty")
	}
	if c.Server.SendQueue <= 0 {
		return invalid("server.send_queue", "must be positive, got %d", c.Server.SendQueue)
	}
	if c.World.FoodCount <= 0 {
		return invalid("world.food_count", "must be positive, got %d", c.World.FoodCount)
	}
	if c.World.FoodMaxX <= 0 || c.World.FoodMaxY <= 0 {
		return invalid("world.food_max_x/y", "must be positive, got %dx%d", c.World.FoodMaxX, c.World.FoodMaxY)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return invalid("world.width/height", "must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	spawn := world.Position{X: c.World.SpawnX, Y: c.World.SpawnY}
	if !(world.Bounds{Width: c.World.Width, Height: c.World.Height}).Contains(spawn) {
		return invalid("world.spawn", "(%g, %g) is outside the world", spawn.X, spawn.Y)
	}
	if c.World.EatRadius <= 0 {
		return invalid("world.eat_radius", "must be positive, got %g", c.World.EatRadius)
	}
	if c.Client.TickInterval <= 0 {
		return invalid("client.tick_interval", "must be positive, got %s", c.Client.TickInterval)
	}
	if c.Client.Speed <= 0 {
		return invalid("client.speed", "must be positive, got %g", c.Client.Speed)
	}
	if c.Client.ReportEvery < 0 {
		return invalid("client.report_every", "must be 0 or more, got %d", c.Client.ReportEvery)
	}
	if _, err := protocol.CodecByName(c.Client.Codec); err != nil {
		return invalid("client.codec", "%q is not arena.json or arena.msgpack", c.Client.Codec)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "%q is not debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return invalid("log.format", "%q is not text or json", c.Log.Format)
	}
	return nil
}

// Path returns the YAML file the config was read from, or "".
func (c *Config) Path() string {
	return c.path
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WorldRules converts the world section.
func (c *Config) WorldRules() *world.Config {
	return &world.Config{
		FoodCount: c.World.FoodCount,
		FoodMaxX:  c.World.FoodMaxX,
		FoodMaxY:  c.World.FoodMaxY,
		EatRadius: c.World.EatRadius,
		Spawn:     world.Position{X: c.World.SpawnX, Y: c.World.SpawnY},
		Bounds:    world.Bounds{Width: c.World.Width, Height: c.World.Height},
	}
}

// ServerOptions converts the server and world sections.
func (c *Config) ServerOptions(logger *slog.Logger) *server.ServerConfig {
	cfg := server.DefaultServerConfig()
	cfg.Address = c.Server.Addr
	cfg.AllowedOrigin = c.Server.AllowedOrigin
	cfg.World = c.WorldRules()
	cfg.Logger = logger
	cfg.SessionConfig = &server.SessionConfig{
		ReadTimeout:       c.Server.ReadTimeout,
		WriteTimeout:      c.Server.WriteTimeout,
		HeartbeatInterval: c.Server.HeartbeatInterval,
		MaxMessageSize:    c.Server.MaxMessageSize,
		SendQueueSize:     c.Server.SendQueue,
	}
	return cfg
}

// ClientOptions converts the client and world sections for a player called name.
func (c *Config) ClientOptions(name string, logger *slog.Logger) *client.Config {
	return &client.Config{
		ServerURL:    c.Client.ServerURL,
		Codec:        c.Client.Codec,
		Name:         name,
		TickInterval: c.Client.TickInterval,
		Speed:        c.Client.Speed,
		ReportEvery:  c.Client.ReportEvery,
		Viewport:     world.Bounds{Width: c.Client.ViewportWidth, Height: c.Client.ViewportHeight},
		World:        c.WorldRules(),
		Logger:       logger,
	}
}

// NewLogger builds the slog logger the log section describes.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
