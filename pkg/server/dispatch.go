package server

import (
	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/world"
)

// route hands one inbound message to its handler.
func (h *Hub) route(id string, msg protocol.Message, out Outbox) outcome {
	switch m := msg.(type) {
	case protocol.PlayerJoined:
		return h.handleJoin(id, m.Name, out)
	case protocol.FoodEaten:
		return h.handleFoodEaten(id, m.FoodID, out)
	case protocol.UpdateMovement:
		return h.handleMovement(id, m.Snake, out)
	}
	h.logger.Debug("dropping server-bound event", "event", msg.Event(), "session_id", id)
	return outcomeIgnore
}

// handleJoin creates the player, sends the joiner its identity and the food pool, then
// tells everyone the new player list.
func (h *Hub) handleJoin(id, name string, out Outbox) outcome {
	rec := h.store.Join(id, name)
	h.metrics.players.Set(float64(h.store.Len()))
	h.logger.Info("player joined", "session_id", id, "name", rec.Name)

	out.Send(id, protocol.Welcome{ID: id})
	out.Send(id, protocol.InitFood{Food: h.food.List()})
	out.Broadcast(protocol.ActivePlayers{Players: h.store.Snapshot()})
	return outcomeOK
}

// handleFoodEaten consumes and replaces the claimed item. A claim on food that is already
// gone changes nothing and broadcasts nothing.
func (h *Hub) handleFoodEaten(id, foodID string, out Outbox) outcome {
	if _, ok := h.store.Get(id); !ok {
		h.metrics.orphanMessages.Inc()
		h.logger.Debug("orphan food claim", "session_id", id, "food_id", foodID)
		return outcomeOrphan
	}

	spawned, ok := h.food.ConsumeAndReplenish(foodID)
	if !ok {
		h.metrics.staleClaims.Inc()
		h.logger.Debug("stale food claim", "session_id", id, "food_id", foodID)
		return outcomeStale
	}

	h.metrics.foodConsumed.Inc()
	h.logger.Debug("food eaten", "session_id", id, "food_id", foodID, "spawned", spawned.ID)
	out.Broadcast(protocol.UpdateFood{Food: h.food.List()})
	return outcomeOK
}

// handleMovement stores the reported snake as-is and rebroadcasts the player list.
func (h *Hub) handleMovement(id string, snake world.Snake, out Outbox) outcome {
	if !h.store.ReportMovement(id, snake) {
		h.metrics.orphanMessages.Inc()
		h.logger.Debug("orphan movement report", "session_id", id)
		return outcomeOrphan
	}
	out.Broadcast(protocol.ActivePlayers{Players: h.store.Snapshot()})
	return outcomeOK
}

// handleLeave removes the player for id and tells the remaining connections. A connection
// that never joined only logs.
func (h *Hub) handleLeave(id string, out Outbox) {
	rec, ok := h.store.Leave(id)
	if !ok {
		h.logger.Debug("disconnected before joining", "session_id", id)
		return
	}
	h.metrics.players.Set(float64(h.store.Len()))
	h.logger.Info("player left", "session_id", id, "name", rec.Name)
	out.Broadcast(protocol.ActivePlayers{Players: h.store.Snapshot()})
}
