package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/snakearena/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != ":30045" {
		t.Errorf("Server.Addr = %q, want :30045", cfg.Server.Addr)
	}
	if cfg.Server.AllowedOrigin != "http://localhost:3000" {
		t.Errorf("Server.AllowedOrigin = %q", cfg.Server.AllowedOrigin)
	}
	if cfg.World.FoodCount != 30 {
		t.Errorf("World.FoodCount = %d, want 30", cfg.World.FoodCount)
	}
	if cfg.Client.TickInterval != 30*time.Millisecond {
		t.Errorf("Client.TickInterval = %v, want 30ms", cfg.Client.TickInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "arena.yaml", `
server:
  addr: ":9999"
world:
  food_count: 12
client:
  tick_interval: 50ms
  codec: arena.msgpack
log:
  format: json
`)

	cfg, err := LoadWithEnvFile(path, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.World.FoodCount != 12 {
		t.Errorf("World.FoodCount = %d", cfg.World.FoodCount)
	}
	if cfg.Client.TickInterval != 50*time.Millisecond {
		t.Errorf("Client.TickInterval = %v", cfg.Client.TickInterval)
	}
	if cfg.Client.Codec != "arena.msgpack" {
		t.Errorf("Client.Codec = %q", cfg.Client.Codec)
	}
	// Untouched fields keep their defaults.
	if cfg.World.FoodMaxX != 780 || cfg.Server.AllowedOrigin != "http://localhost:3000" {
		t.Errorf("defaults lost: %+v %+v", cfg.World, cfg.Server)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "arena.yaml", "server:\n  addr: \":1111\"\n  allowed_origin: \"http://yaml\"\nlog:\n  level: warn\n")
	envFile := writeFile(t, dir, ".env", "ARENA_ADDR=:2222\nARENA_LOG_LEVEL=debug\n")

	// A variable already in the environment beats the .env file.
	t.Setenv("ARENA_ADDR", ":3333")
	// godotenv sets ARENA_LOG_LEVEL for the process; make sure the test restores it.
	t.Setenv("ARENA_LOG_LEVEL", "")
	os.Unsetenv("ARENA_LOG_LEVEL")

	cfg, err := LoadWithEnvFile(path, envFile)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":3333" {
		t.Errorf("Server.Addr = %q, want env value :3333", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want .env value debug", cfg.Log.Level)
	}
	if cfg.Server.AllowedOrigin != "http://yaml" {
		t.Errorf("Server.AllowedOrigin = %q, want YAML value", cfg.Server.AllowedOrigin)
	}
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	if _, err := LoadWithEnvFile("", filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadWithEnvFile(filepath.Join(dir, "nope.yaml"), "")
	if errors.Code(err) != "E202" {
		t.Errorf("missing file: code = %q, want E202", errors.Code(err))
	}

	bad := writeFile(t, dir, "bad.yaml", "server: [unclosed")
	_, err = LoadWithEnvFile(bad, "")
	if errors.Code(err) != "E202" {
		t.Errorf("bad yaml: code = %q, want E202", errors.Code(err))
	}

	t.Setenv("ARENA_TICK_INTERVAL", "fast")
	_, err = LoadWithEnvFile("", "")
	if errors.Code(err) != "E203" {
		t.Errorf("bad env: code = %q, want E203", errors.Code(err))
	}
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"ARENA_ALLOWED_ORIGIN": "*",
		"ARENA_SERVER_URL":     "ws://example:1/ws",
		"ARENA_TICK_INTERVAL":  "15ms",
		"ARENA_FOOD_COUNT":     "5",
		"ARENA_CODEC":          "arena.msgpack",
		"ARENA_LOG_FORMAT":     "json",
	}
	cfg := New()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("applyEnv error: %v", err)
	}
	if cfg.Server.AllowedOrigin != "*" || cfg.Client.ServerURL != "ws://example:1/ws" ||
		cfg.Client.TickInterval != 15*time.Millisecond || cfg.World.FoodCount != 5 ||
		cfg.Client.Codec != "arena.msgpack" || cfg.Log.Format != "json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero food", func(c *Config) { c.World.FoodCount = 0 }, "world.food_count"},
		{"spawn outside", func(c *Config) { c.World.SpawnX = 5000 }, "world.spawn"},
		{"zero tick", func(c *Config) { c.Client.TickInterval = 0 }, "client.tick_interval"},
		{"negative report", func(c *Config) { c.Client.ReportEvery = -1 }, "client.report_every"},
		{"bad codec", func(c *Config) { c.Client.Codec = "xml" }, "client.codec"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if errors.Code(err) != "E201" {
				t.Fatalf("code = %q, want E201 (err: %v)", errors.Code(err), err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err.Error(), tt.field)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := New()
	cfg.World.FoodCount = 7
	cfg.Server.SendQueue = 9

	rules := cfg.WorldRules()
	if rules.FoodCount != 7 || rules.Spawn.X != 400 || rules.Bounds.Width != 2000 {
		t.Errorf("WorldRules = %+v", rules)
	}

	srv := cfg.ServerOptions(nil)
	if srv.Address != ":30045" || srv.SessionConfig.SendQueueSize != 9 || srv.World.FoodCount != 7 {
		t.Errorf("ServerOptions = %+v", srv)
	}

	cl := cfg.ClientOptions("Ava", nil)
	if cl.Name != "Ava" || cl.TickInterval != 30*time.Millisecond || cl.Viewport.Width != 800 {
		t.Errorf("ClientOptions = %+v", cl)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := New()
	cfg.Client.TickInterval = 45 * time.Millisecond

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), "tick_interval: 45ms") {
		t.Errorf("Marshal output missing duration:\n%s", data)
	}

	path := writeFile(t, t.TempDir(), "out.yaml", string(data))
	back, err := LoadWithEnvFile(path, "")
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if back.Client.TickInterval != 45*time.Millisecond {
		t.Errorf("reloaded TickInterval = %v", back.Client.TickInterval)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("json output = %q", out)
	}
}
