package client

import (
	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/world"
)

// Mirror is the client's copy of server state: the food pool and every other player.
// Updates replace whole lists. The local snake is never taken from the server.
type Mirror struct {
	selfID   string
	selfName string
	food     []world.FoodItem
	others   []world.PlayerRecord
}

// NewMirror returns an empty mirror for a player called name.
func NewMirror(name string) *Mirror {
	return &Mirror{selfName: name}
}

// Apply folds one server message into the mirror. It reports whether the message was
// a mirror update.
func (m *Mirror) Apply(msg protocol.Message) bool {
	switch v := msg.(type) {
	case protocol.Welcome:
		m.ApplyWelcome(v.ID)
	case protocol.InitFood:
		m.ApplyInitFood(v.Food)
	case protocol.UpdateFood:
		m.ApplyUpdateFood(v.Food)
	case protocol.ActivePlayers:
		m.ApplyActivePlayers(v.Players)
	default:
		return false
	}
	return true
}

// ApplyWelcome records the identity the server assigned to this connection.
func (m *Mirror) ApplyWelcome(id string) {
	m.selfID = id
}

// ApplyInitFood replaces the food pool.
func (m *Mirror) ApplyInitFood(food []world.FoodItem) {
	m.food = cloneFood(food)
}

// ApplyUpdateFood replaces the food pool.
func (m *Mirror) ApplyUpdateFood(food []world.FoodItem) {
	m.food = cloneFood(food)
}

// ApplyActivePlayers replaces the other players, dropping self. Self is matched by
// identity once welcome has arrived, by name before that.
func (m *Mirror) ApplyActivePlayers(players []world.PlayerRecord) {
	others := make([]world.PlayerRecord, 0, len(players))
	for _, p := range players {
		if m.isSelf(p) {
			continue
		}
		others = append(others, p.Clone())
	}
	m.others = others
}

func (m *Mirror) isSelf(p world.PlayerRecord) bool {
	if m.selfID != "" {
		return p.ID == m.selfID
	}
	return p.Name == m.selfName
}

// SelfID returns the identity from welcome, or "".
func (m *Mirror) SelfID() string { return m.selfID }

// SelfName returns the display name.
func (m *Mirror) SelfName() string { return m.selfName }

// Food returns the mirrored pool. Callers must not modify it.
func (m *Mirror) Food() []world.FoodItem { return m.food }

// Others returns the other players in broadcast order. Callers must not modify it.
func (m *Mirror) Others() []world.PlayerRecord { return m.others }

// Reset clears everything learned from the server.
func (m *Mirror) Reset() {
	m.selfID = ""
	m.food = nil
	m.others = nil
}

func cloneFood(food []world.FoodItem) []world.FoodItem {
	out := make([]world.FoodItem, len(food))
	copy(out, food)
	return out
}
