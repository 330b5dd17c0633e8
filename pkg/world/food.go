package world

import (
	"math"
	"math/rand/v2"
	"sync"
)

const (
	foodIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	foodIDLength   = 9
)

// FoodItem is a single piece of food. Its ID never changes and is never reissued.
type FoodItem struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Position returns the item's location.
func (f FoodItem) Position() Position {
	return Position{X: f.X, Y: f.Y}
}

// FoodManager maintains the shared food pool at a constant size.
type FoodManager struct {
	mu     sync.RWMutex
	config *Config
	rng    *rand.Rand
	items  []FoodItem
	issued map[string]struct{}
}

// NewFoodManager creates an empty manager. Call Initialize to populate it.
// A nil rng seeds one from the runtime's random source.
func NewFoodManager(config *Config, rng *rand.Rand) *FoodManager {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &FoodManager{
		config: config.WithDefaults(),
		rng:    rng,
		issued: make(map[string]struct{}),
	}
}

// Initialize replaces the pool with FoodCount freshly generated items and returns a copy.
func (m *FoodManager) Initialize() []FoodItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make([]FoodItem, 0, m.config.FoodCount)
	for i := 0; i < m.config.FoodCount; i++ {
		m.items = append(m.items, m.generateLocked())
	}
	return m.copyLocked()
}

// Consume removes the item with the given id. It returns false when the id is not live,
// which is how a second claim on already eaten food shows up.
func (m *FoodManager) Consume(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(id)
}

// Replenish appends one freshly generated item and returns it.
func (m *FoodManager) Replenish() FoodItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.generateLocked()
	m.items = append(m.items, item)
	return item
}

// ConsumeAndReplenish performs Consume followed by Replenish under one lock, so no reader
// observes the pool one short. Nothing is spawned for a stale claim.
func (m *FoodManager) ConsumeAndReplenish(id string) (FoodItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.removeLocked(id) {
		return FoodItem{}, false
	}
	item := m.generateLocked()
	m.items = append(m.items, item)
	return item, true
}

// List returns a copy of the pool in list order.
func (m *FoodManager) List() []FoodItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyLocked()
}

// Len returns the pool size.
func (m *FoodManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Issued returns how many ids have been handed out since creation.
func (m *FoodManager) Issued() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.issued)
}

func (m *FoodManager) removeLocked(id string) bool {
	for i, f := range m.items {
		if f.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func (m *FoodManager) generateLocked() FoodItem {
	return FoodItem{
		ID: m.newIDLocked(),
		X:  float64(m.rng.IntN(m.config.FoodMaxX)),
		Y:  float64(m.rng.IntN(m.config.FoodMaxY)),
	}
}

// newIDLocked draws ids until it finds one never issued before.
func (m *FoodManager) newIDLocked() string {
	b := make([]byte, foodIDLength)
	for {
		for i := range b {
			b[i] = foodIDAlphabet[m.rng.IntN(len(foodIDAlphabet))]
		}
		id := string(b)
		if _, dup := m.issued[id]; dup {
			continue
		}
		m.issued[id] = struct{}{}
		return id
	}
}

func (m *FoodManager) copyLocked() []FoodItem {
	out := make([]FoodItem, len(m.items))
	copy(out, m.items)
	return out
}

// FindEaten returns the first item in list order whose position is within radius of head on
// both axes. The test is an axis-aligned square, not a circle.
func FindEaten(head Position, food []FoodItem, radius float64) (FoodItem, bool) {
	for _, f := range food {
		if math.Abs(head.X-f.X) < radius && math.Abs(head.Y-f.Y) < radius {
			return f, true
		}
	}
	return FoodItem{}, false
}
