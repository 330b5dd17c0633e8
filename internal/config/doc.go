// Package config loads snakearena configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults (New)
//  2. snakearena.yaml, or the file passed with --config
//  3. .env in the working directory
//  4. ARENA_* environment variables
//  5. command-line flags, applied by cmd/snakearena
//
// # Configuration File Structure
//
//	server:
//	  addr: ":30045"
//	  allowed_origin: "http://localhost:3000"
//	  heartbeat_interval: 30s
//	  send_queue: 256
//	world:
//	  food_count: 30
//	  food_max_x: 780
//	  food_max_y: 580
//	  width: 2000
//	  height: 2000
//	client:
//	  server_url: "ws://localhost:30045/ws"
//	  codec: arena.json
//	  tick_interval: 30ms
//	  report_every: 1
//	log:
//	  level: info
//	  format: text
//
// # Environment
//
// ARENA_ADDR, ARENA_ALLOWED_ORIGIN, ARENA_LOG_LEVEL, ARENA_LOG_FORMAT, ARENA_SERVER_URL,
// ARENA_CODEC, ARENA_TICK_INTERVAL and ARENA_FOOD_COUNT override the matching fields.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    errors.Print(os.Stderr, err)
//	    os.Exit(1)
//	}
//	srv := server.New(cfg.ServerOptions(cfg.NewLogger(os.Stderr)))
package config
