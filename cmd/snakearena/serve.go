package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/snakearena/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr      string
		origin    string
		foodCount int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the arena server",
		Long: `Run the arena server.

The server accepts game connections on /ws and also serves
/healthz, /api/status and /metrics.

Examples:
  snakearena serve
  snakearena serve --addr=:8080 --origin='*'
  ARENA_LOG_FORMAT=json snakearena serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if origin != "" {
				cfg.Server.AllowedOrigin = origin
			}
			if foodCount > 0 {
				cfg.World.FoodCount = foodCount
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg)
			if cfg.Path() != "" {
				logger.Info("config loaded", "path", cfg.Path())
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printBanner()
			info("serving on %s", cfg.Server.Addr)
			info("metrics at http://localhost%s/metrics", cfg.Server.Addr)

			srv := server.New(cfg.ServerOptions(logger))
			if err := srv.Run(ctx); err != nil {
				return err
			}
			success("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :30045)")
	cmd.Flags().StringVar(&origin, "origin", "", "Allowed browser origin, or * for any")
	cmd.Flags().IntVar(&foodCount, "food", 0, "Food pool size (default from config, 30)")

	return cmd
}
