package term

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/vango-dev/snakearena/pkg/client"
)

// App drives a client from a terminal screen.
type App struct {
	screen tcell.Screen
	client *client.Client
	sound  *Sound
	logger *slog.Logger

	mu      sync.Mutex
	latest  client.Frame
	pending bool
	redraw  chan struct{}
}

// NewApp wires c's callbacks to screen. sound may be nil.
func NewApp(screen tcell.Screen, c *client.Client, sound *Sound, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		screen: screen,
		client: c,
		sound:  sound,
		logger: logger.With("component", "term"),
		redraw: make(chan struct{}, 1),
	}
	c.OnFrame(a.offer)
	c.OnEat(func(string) { a.sound.Eat() })
	return a
}

// offer keeps only the newest frame so a slow terminal never blocks the client.
func (a *App) offer(f client.Frame) {
	a.mu.Lock()
	a.latest = f
	a.pending = true
	a.mu.Unlock()

	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

func (a *App) take() (client.Frame, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.pending {
		return client.Frame{}, false
	}
	a.pending = false
	return a.latest, true
}

// Run plays until the user quits, the connection drops or ctx is cancelled. The caller
// owns screen Init and Fini.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan error, 1)
	go func() { done <- a.client.Run(ctx) }()

	for {
		select {
		case err := <-done:
			return err
		case <-a.redraw:
			if f, ok := a.take(); ok {
				Draw(a.screen, f)
				a.screen.Show()
			}
		case ev := <-events:
			a.handleEvent(ev)
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		intent, ok := KeyIntent(ev.Key(), ev.Rune())
		if !ok {
			return
		}
		if !a.client.Submit(intent) {
			a.logger.Debug("intent dropped", "intent", intent.String())
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.offer(a.current())
	}
}

func (a *App) current() client.Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}
