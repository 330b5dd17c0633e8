package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/vango-dev/snakearena/internal/term"
	"github.com/vango-dev/snakearena/pkg/client"
)

func playCmd(flags *globalFlags) *cobra.Command {
	var (
		name      string
		serverURL string
		codec     string
		sound     bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join the arena from the terminal",
		Long: `Join the arena from the terminal.

Keys:
  s          start
  p, space   stop
  e          end the game
  r          restart after the game ends
  arrows     steer (hjkl also work)
  q, Esc     quit

Logs go to stderr; redirect it to keep the screen clean.

Examples:
  snakearena play --name=Ava
  snakearena play --name=Ava --server=ws://arena.example:30045/ws --sound 2>play.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.Client.ServerURL = serverURL
			}
			if codec != "" {
				cfg.Client.Codec = codec
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			t, err := client.Dial(ctx, cfg.Client.ServerURL, cfg.Client.Codec)
			if err != nil {
				return err
			}

			var cue *term.Sound
			if sound {
				cue, err = term.NewSound()
				if err != nil {
					// Non-fatal, the game runs silent.
					logger.Warn("audio unavailable", "error", err)
				}
				defer cue.Close()
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				t.Close()
				return err
			}
			if err := screen.Init(); err != nil {
				t.Close()
				return err
			}
			defer screen.Fini()

			c := client.New(cfg.ClientOptions(name, logger), t)
			err = term.NewApp(screen, c, cue, logger).Run(ctx)
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Player name (required)")
	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "Server URL (default from config)")
	cmd.Flags().StringVar(&codec, "codec", "", "Wire codec: arena.json or arena.msgpack")
	cmd.Flags().BoolVar(&sound, "sound", false, "Beep when you eat")

	return cmd
}
