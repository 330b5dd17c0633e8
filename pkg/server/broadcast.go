package server

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/vango-dev/snakearena/pkg/protocol"
)

// Peer is one connection as the hub sees it. Session is the websocket implementation.
type Peer interface {
	// ID is the connection identity. It is also the player id once the peer joins.
	ID() string

	// Codec encodes frames for this peer.
	Codec() protocol.Codec

	// Enqueue hands an encoded frame to the peer's writer. It must not block.
	Enqueue(frame []byte) error

	// Close shuts the connection. The peer's reader reports the disconnect later.
	Close()
}

// Outbox is the broadcast capability handed to message handlers.
type Outbox interface {
	// Send delivers msg to one connection.
	Send(id string, msg protocol.Message)

	// Broadcast delivers msg to every connection.
	Broadcast(msg protocol.Message)
}

// fanout is the hub's Outbox. It is owned by the hub goroutine.
type fanout struct {
	peers   map[string]Peer
	metrics *Metrics
	logger  *slog.Logger
}

func newFanout(metrics *Metrics, logger *slog.Logger) *fanout {
	return &fanout{
		peers:   make(map[string]Peer),
		metrics: metrics,
		logger:  logger,
	}
}

func (f *fanout) add(p Peer) {
	f.peers[p.ID()] = p
	f.metrics.connections.Set(float64(len(f.peers)))
}

func (f *fanout) remove(id string) bool {
	if _, ok := f.peers[id]; !ok {
		return false
	}
	delete(f.peers, id)
	f.metrics.connections.Set(float64(len(f.peers)))
	return true
}

func (f *fanout) Send(id string, msg protocol.Message) {
	p, ok := f.peers[id]
	if !ok {
		return
	}
	frame, err := protocol.Encode(p.Codec(), msg)
	if err != nil {
		f.logger.Error("encode failed", "event", msg.Event(), "error", err)
		return
	}
	f.deliver(p, frame)
}

// Broadcast encodes msg once per codec in use and enqueues it to every peer. When a
// codec cannot encode msg, only the peers using that codec miss it.
func (f *fanout) Broadcast(msg protocol.Message) {
	f.metrics.broadcasts.WithLabelValues(msg.Event()).Inc()

	frames := make(map[string][]byte, 2)
	failed := make(map[string]bool)
	for _, p := range f.sorted() {
		name := p.Codec().Name()
		if failed[name] {
			continue
		}
		frame, ok := frames[name]
		if !ok {
			var err error
			frame, err = protocol.Encode(p.Codec(), msg)
			if err != nil {
				f.logger.Error("encode failed", "event", msg.Event(), "codec", name, "error", err)
				failed[name] = true
				continue
			}
			frames[name] = frame
		}
		f.deliver(p, frame)
	}
}

// deliver enqueues frame and drops a peer that cannot keep up. The dropped peer's reader
// posts the disconnect that removes its player.
func (f *fanout) deliver(p Peer, frame []byte) {
	err := p.Enqueue(frame)
	if err == nil {
		return
	}
	if errors.Is(err, ErrSendQueueFull) {
		f.metrics.queueOverflows.Inc()
		f.logger.Warn("send queue full, closing session", "session_id", p.ID())
	} else {
		f.logger.Debug("enqueue failed", "session_id", p.ID(), "error", err)
	}
	f.remove(p.ID())
	p.Close()
}

// sorted returns peers in id order so fan-out order is deterministic.
func (f *fanout) sorted() []Peer {
	out := make([]Peer, 0, len(f.peers))
	for _, p := range f.peers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (f *fanout) closeAll() {
	for id, p := range f.peers {
		p.Close()
		delete(f.peers, id)
	}
	f.metrics.connections.Set(0)
}
