package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/snakearena/internal/config"
	"github.com/vango-dev/snakearena/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┐┌┌─┐┬┌─┌─┐┌─┐┬─┐┌─┐┌┐┌┌─┐
  └─┐│││├─┤├┴┐├┤ ├─┤├┬┘├┤ │││├─┤
  └─┘┘└┘┴ ┴┴ ┴└─┘┴ ┴┴└─└─┘┘└┘┴ ┴
`

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "snakearena",
		Short: "Multiplayer snake arena server and clients",
		Long: `snakearena runs a shared snake arena.

One server owns the food pool and the roster of players. Clients
simulate their own snake, claim food they touch and report their
body; the server relays everyone's state to everyone.

  • serve  run the arena server
  • play   join from the terminal
  • bot    join with headless players that wander`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default snakearena.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(&flags),
		playCmd(&flags),
		botCmd(&flags),
		configCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// load resolves the configuration and applies the persistent flags on top.
func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func newLogger(cfg *config.Config) *slog.Logger {
	return cfg.NewLogger(os.Stderr)
}
