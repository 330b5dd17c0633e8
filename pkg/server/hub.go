package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"time"

	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/world"
)

// HubConfig configures a Hub.
type HubConfig struct {
	// World holds the food and spawn rules.
	// Default: world.DefaultConfig().
	World *world.Config

	// InboxSize is the buffer of the command channel.
	// Default: 1024.
	InboxSize int

	// Rand drives food placement and ids. Nil seeds one at random.
	Rand *rand.Rand

	// Metrics receives hub counters. Nil registers on a private registry.
	Metrics *Metrics

	// TracerName names the dispatch tracer.
	// Default: "snakearena".
	TracerName string

	// Logger is the base logger.
	// Default: slog.Default().
	Logger *slog.Logger
}

// Status is a consistent view of the hub's counts.
type Status struct {
	Players     int `json:"players"`
	Food        int `json:"food"`
	Connections int `json:"connections"`
}

type (
	connectCmd    struct{ peer Peer }
	disconnectCmd struct{ id string }
	messageCmd    struct {
		id  string
		msg protocol.Message
	}
	statusCmd struct{ reply chan Status }
)

// Hub is the single dispatcher that owns the world. Sessions post commands to its inbox
// and every mutation runs inside Run, one command at a time.
type Hub struct {
	store   *world.Store
	food    *world.FoodManager
	out     *fanout
	metrics *Metrics
	tracer  tracer
	logger  *slog.Logger

	inbox    chan any
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub with a freshly initialized food pool.
func NewHub(config HubConfig) *Hub {
	if config.World == nil {
		config.World = world.DefaultConfig()
	}
	if config.InboxSize <= 0 {
		config.InboxSize = 1024
	}
	if config.Metrics == nil {
		config.Metrics = NewMetrics(MetricsConfig{})
	}
	if config.TracerName == "" {
		config.TracerName = "snakearena"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	logger := config.Logger.With("component", "hub")

	h := &Hub{
		store:   world.NewStore(config.World),
		food:    world.NewFoodManager(config.World, config.Rand),
		out:     newFanout(config.Metrics, logger),
		metrics: config.Metrics,
		tracer:  newTracer(config.TracerName),
		logger:  logger,
		inbox:   make(chan any, config.InboxSize),
		stopped: make(chan struct{}),
	}
	h.food.Initialize()
	return h
}

// Run processes commands until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	defer h.out.closeAll()

	h.logger.Info("hub started", "food", h.food.Len())
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub stopping", "players", h.store.Len())
			return
		case cmd := <-h.inbox:
			h.handle(ctx, cmd)
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.stopped) })
}

// Connect registers a new connection. It has no player record until it joins.
func (h *Hub) Connect(p Peer) error {
	return h.post(connectCmd{peer: p})
}

// Deliver queues an inbound message from connection id.
func (h *Hub) Deliver(id string, msg protocol.Message) error {
	return h.post(messageCmd{id: id, msg: msg})
}

// Disconnect reports that connection id is gone. Its player, if any, leaves.
func (h *Hub) Disconnect(id string) error {
	return h.post(disconnectCmd{id: id})
}

// Status returns the hub's counts as seen from inside the dispatch loop.
func (h *Hub) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	if err := h.post(statusCmd{reply: reply}); err != nil {
		return Status{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-h.stopped:
		return Status{}, ErrHubStopped
	}
}

// Store exposes the player table for read-only use.
func (h *Hub) Store() *world.Store { return h.store }

// Food exposes the food pool for read-only use.
func (h *Hub) Food() *world.FoodManager { return h.food }

func (h *Hub) post(cmd any) error {
	select {
	case <-h.stopped:
		return ErrHubStopped
	default:
	}
	select {
	case h.inbox <- cmd:
		return nil
	case <-h.stopped:
		return ErrHubStopped
	}
}

// handle runs one command to completion.
func (h *Hub) handle(ctx context.Context, cmd any) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("dispatch panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	switch c := cmd.(type) {
	case connectCmd:
		h.out.add(c.peer)
		h.logger.Debug("connected", "session_id", c.peer.ID())

	case disconnectCmd:
		h.out.remove(c.id)
		h.handleLeave(c.id, h.out)

	case messageCmd:
		event := c.msg.Event()
		h.metrics.received.WithLabelValues(event).Inc()

		start := time.Now()
		_, span := h.tracer.startDispatch(ctx, event, c.id)
		o := h.route(c.id, c.msg, h.out)
		endDispatch(span, o)
		h.metrics.dispatchDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())

	case statusCmd:
		c.reply <- Status{
			Players:     h.store.Len(),
			Food:        h.food.Len(),
			Connections: len(h.out.peers),
		}

	default:
		h.logger.Warn("unknown hub command", "type", fmt.Sprintf("%T", cmd))
	}
}
