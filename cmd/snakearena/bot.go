package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/snakearena/internal/config"
	"github.com/vango-dev/snakearena/pkg/client"
)

type botOptions struct {
	count     int
	prefix    string
	serverURL string
	codec     string
	turnEvery time.Duration
	roundTime time.Duration
	duration  time.Duration
}

func botCmd(flags *globalFlags) *cobra.Command {
	var opts botOptions

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Join the arena with headless players",
		Long: `Join the arena with headless players.

Each bot starts immediately, turns at random and reports its
snake like a real client. With --round a bot ends its game and
restarts after that long.

Examples:
  snakearena bot
  snakearena bot --count=20 --turn=300ms --round=1m
  snakearena bot --codec=arena.msgpack --duration=30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if opts.serverURL != "" {
				cfg.Client.ServerURL = opts.serverURL
			}
			if opts.codec != "" {
				cfg.Client.Codec = opts.codec
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if opts.count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			if opts.turnEvery <= 0 {
				return fmt.Errorf("--turn must be positive")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if opts.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.duration)
				defer cancel()
			}

			return runBots(ctx, cfg, opts, newLogger(cfg))
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of bots")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "bot", "Name prefix; bots are named <prefix>-<i>")
	cmd.Flags().StringVarP(&opts.serverURL, "server", "s", "", "Server URL (default from config)")
	cmd.Flags().StringVar(&opts.codec, "codec", "", "Wire codec: arena.json or arena.msgpack")
	cmd.Flags().DurationVar(&opts.turnEvery, "turn", 500*time.Millisecond, "Mean time between random turns")
	cmd.Flags().DurationVar(&opts.roundTime, "round", 0, "End and restart the game this often (0 = never)")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Stop after this long (0 = until interrupted)")

	return cmd
}

func runBots(ctx context.Context, cfg *config.Config, opts botOptions, logger *slog.Logger) error {
	var (
		wg     sync.WaitGroup
		eaten  atomic.Int64
		failed atomic.Int64
	)

	for i := range opts.count {
		name := fmt.Sprintf("%s-%d", opts.prefix, i+1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runBot(ctx, cfg, opts, name, &eaten, logger)
			if err != nil && !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded) {
				failed.Add(1)
				logger.Error("bot stopped", "name", name, "error", err)
			}
		}()
	}
	wg.Wait()

	success("%d bots done, %d food eaten", opts.count, eaten.Load())
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d bots failed", n, opts.count)
	}
	return nil
}

func runBot(ctx context.Context, cfg *config.Config, opts botOptions, name string, eaten *atomic.Int64, logger *slog.Logger) error {
	t, err := client.Dial(ctx, cfg.Client.ServerURL, cfg.Client.Codec)
	if err != nil {
		return err
	}
	c := client.New(cfg.ClientOptions(name, logger), t)
	c.OnEat(func(string) { eaten.Add(1) })

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go drive(ctx, c, opts)

	c.Submit(client.IntentStart)
	return c.Run(ctx)
}

// drive submits random turns and, when rounds are enabled, end and restart intents.
func drive(ctx context.Context, c *client.Client, opts botOptions) {
	turns := []client.Intent{client.IntentUp, client.IntentDown, client.IntentLeft, client.IntentRight}

	var round <-chan time.Time
	if opts.roundTime > 0 {
		ticker := time.NewTicker(opts.roundTime)
		defer ticker.Stop()
		round = ticker.C
	}

	for {
		// Jitter between half and one and a half times the mean.
		wait := opts.turnEvery/2 + rand.N(opts.turnEvery+1)
		select {
		case <-ctx.Done():
			return
		case <-round:
			c.Submit(client.IntentEnd)
			c.Submit(client.IntentRestart)
		case <-time.After(wait):
			c.Submit(turns[rand.IntN(len(turns))])
		}
	}
}
