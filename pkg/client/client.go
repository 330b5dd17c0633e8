package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/snakearena/pkg/protocol"
)

// Intent is a user action delivered to the client loop.
type Intent int

const (
	IntentUp Intent = iota
	IntentDown
	IntentLeft
	IntentRight
	IntentStart
	IntentStop
	IntentEnd
	IntentRestart
	IntentQuit
)

func (i Intent) String() string {
	names := [...]string{"up", "down", "left", "right", "start", "stop", "end", "restart", "quit"}
	if int(i) >= 0 && int(i) < len(names) {
		return names[i]
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// Client runs one player's session: it joins, mirrors server state, ticks the local sim
// and reports what the sim does. Mirror and sim are touched only by Run's goroutine.
type Client struct {
	config    *Config
	transport Transport
	mirror    *Mirror
	sim       *Sim
	camera    *Camera

	intents chan Intent
	onFrame func(Frame)
	onEat   func(foodID string)

	ticks  int
	logger *slog.Logger
}

// New creates a client over an established transport.
func New(config *Config, t Transport) *Client {
	config = config.withDefaults()
	return &Client{
		config:    config,
		transport: t,
		mirror:    NewMirror(config.Name),
		sim:       NewSim(config.World, config.Speed),
		camera:    NewCamera(config.Viewport),
		intents:   make(chan Intent, 16),
		logger:    config.Logger.With("component", "client", "name", config.Name),
	}
}

// OnFrame registers a callback run after every tick and every applied server message.
// It runs on the client goroutine and must not block.
func (c *Client) OnFrame(fn func(Frame)) { c.onFrame = fn }

// OnEat registers a callback run when the local head hits food.
func (c *Client) OnEat(fn func(foodID string)) { c.onEat = fn }

// Submit queues an intent without blocking. It reports false when the queue is full.
func (c *Client) Submit(i Intent) bool {
	select {
	case c.intents <- i:
		return true
	default:
		return false
	}
}

// Run joins the arena and drives the session until ctx ends, the connection drops, or
// a quit intent arrives. The transport is closed on return.
func (c *Client) Run(ctx context.Context) error {
	defer c.transport.Close()

	if err := c.sim.Join(); err != nil {
		return err
	}
	if err := c.transport.Send(protocol.PlayerJoined{Name: c.config.Name}); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	c.logger.Info("joined")

	inbound := make(chan protocol.Message, 64)
	readErr := make(chan error, 1)
	readCtx, stopReader := context.WithCancel(ctx)
	defer stopReader()
	go c.readLoop(readCtx, inbound, readErr)

	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			c.logger.Warn("connection lost", "error", err)
			return err

		case msg := <-inbound:
			if c.mirror.Apply(msg) {
				c.emit()
			}

		case i := <-c.intents:
			if i == IntentQuit {
				c.sim.Quit()
				c.mirror.Reset()
				c.emit()
				c.logger.Info("quit")
				return nil
			}
			if c.apply(i) {
				c.emit()
			}

		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Client) readLoop(ctx context.Context, inbound chan<- protocol.Message, readErr chan<- error) {
	for {
		msg, err := c.transport.Receive()
		if err != nil {
			readErr <- err
			return
		}
		select {
		case inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// apply runs one intent against the sim. Rejected intents are dropped silently.
func (c *Client) apply(i Intent) bool {
	var err error
	switch i {
	case IntentUp:
		return c.sim.Turn(Up)
	case IntentDown:
		return c.sim.Turn(Down)
	case IntentLeft:
		return c.sim.Turn(Left)
	case IntentRight:
		return c.sim.Turn(Right)
	case IntentStart:
		err = c.sim.Start()
	case IntentStop:
		err = c.sim.Stop()
	case IntentEnd:
		err = c.sim.EndGame()
	case IntentRestart:
		err = c.sim.Restart()
		if err == nil {
			c.ticks = 0
		}
	default:
		return false
	}
	if err != nil {
		c.logger.Debug("intent dropped", "intent", i, "error", err)
		return false
	}
	return true
}

func (c *Client) tick() {
	res := c.sim.Tick(c.mirror.Food())
	if !res.Moved {
		return
	}
	c.ticks++

	if res.Ate {
		c.send(protocol.FoodEaten{FoodID: res.FoodID})
		if c.onEat != nil {
			c.onEat(res.FoodID)
		}
	}
	if c.config.ReportEvery > 0 && c.ticks%c.config.ReportEvery == 0 {
		c.send(protocol.UpdateMovement{Snake: c.sim.Snake()})
	}
	c.emit()
}

// send is fire-and-forget: failures are logged and never retried.
func (c *Client) send(msg protocol.Message) {
	if err := c.transport.Send(msg); err != nil {
		c.logger.Debug("send failed", "event", msg.Event(), "error", err)
	}
}

func (c *Client) emit() {
	if c.onFrame != nil {
		c.onFrame(c.camera.Frame(c.mirror, c.sim))
	}
}
