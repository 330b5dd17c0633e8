package world

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFood(t *testing.T) *FoodManager {
	t.Helper()
	m := NewFoodManager(nil, rand.New(rand.NewPCG(1, 2)))
	m.Initialize()
	return m
}

func TestFoodInitializeFillsPool(t *testing.T) {
	m := newTestFood(t)

	items := m.List()
	require.Len(t, items, DefaultFoodCount)

	seen := make(map[string]bool)
	for _, f := range items {
		assert.Len(t, f.ID, foodIDLength)
		for _, r := range f.ID {
			assert.Contains(t, foodIDAlphabet, string(r))
		}
		assert.False(t, seen[f.ID], "duplicate id %q", f.ID)
		seen[f.ID] = true

		assert.GreaterOrEqual(t, f.X, 0.0)
		assert.Less(t, f.X, float64(DefaultFoodMaxX))
		assert.GreaterOrEqual(t, f.Y, 0.0)
		assert.Less(t, f.Y, float64(DefaultFoodMaxY))
		assert.Equal(t, float64(int(f.X)), f.X, "food x should be whole")
	}
}

func TestFoodConsumeAndReplenishKeepsCount(t *testing.T) {
	m := newTestFood(t)
	target := m.List()[5]

	spawned, ok := m.ConsumeAndReplenish(target.ID)
	require.True(t, ok)
	assert.Equal(t, DefaultFoodCount, m.Len())
	assert.NotEqual(t, target.ID, spawned.ID)

	for _, f := range m.List() {
		assert.NotEqual(t, target.ID, f.ID)
	}
	assert.Equal(t, spawned, m.List()[DefaultFoodCount-1], "replenished item is appended")
}

func TestFoodSecondClaimIsNoop(t *testing.T) {
	m := newTestFood(t)
	id := m.List()[0].ID

	_, first := m.ConsumeAndReplenish(id)
	before := m.List()
	_, second := m.ConsumeAndReplenish(id)

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, before, m.List(), "stale claim must not change the pool")
	assert.Equal(t, DefaultFoodCount, m.Len())
}

func TestFoodConsumeWithoutReplenishDropsOne(t *testing.T) {
	m := newTestFood(t)
	id := m.List()[3].ID

	assert.True(t, m.Consume(id))
	assert.Equal(t, DefaultFoodCount-1, m.Len())
	assert.False(t, m.Consume(id))

	m.Replenish()
	assert.Equal(t, DefaultFoodCount, m.Len())
}

func TestFoodIDsNeverReissued(t *testing.T) {
	m := newTestFood(t)

	ever := make(map[string]bool)
	for _, f := range m.List() {
		ever[f.ID] = true
	}
	for i := 0; i < 2000; i++ {
		victim := m.List()[i%DefaultFoodCount]
		spawned, ok := m.ConsumeAndReplenish(victim.ID)
		require.True(t, ok)
		require.False(t, ever[spawned.ID], "id %q issued twice", spawned.ID)
		ever[spawned.ID] = true
	}
	assert.Equal(t, len(ever), m.Issued())
}

func TestFoodCustomConfig(t *testing.T) {
	m := NewFoodManager(&Config{FoodCount: 5, FoodMaxX: 10, FoodMaxY: 20}, nil)
	items := m.Initialize()

	require.Len(t, items, 5)
	for _, f := range items {
		assert.Less(t, f.X, 10.0)
		assert.Less(t, f.Y, 20.0)
	}
}

func TestFindEatenSquareProximity(t *testing.T) {
	food := []FoodItem{
		{ID: "far", X: 100, Y: 100},
		{ID: "a", X: 409, Y: 291},
		{ID: "b", X: 400, Y: 300},
	}

	got, ok := FindEaten(Position{X: 400, Y: 300}, food, DefaultEatRadius)
	require.True(t, ok)
	assert.Equal(t, "a", got.ID, "first match in list order wins, not the nearest")

	// Corner of the square: a circle of radius 10 would miss this.
	_, ok = FindEaten(Position{X: 0, Y: 0}, []FoodItem{{ID: "c", X: 9.5, Y: 9.5}}, DefaultEatRadius)
	assert.True(t, ok)

	// The bound is strict.
	_, ok = FindEaten(Position{X: 0, Y: 0}, []FoodItem{{ID: "d", X: 10, Y: 0}}, DefaultEatRadius)
	assert.False(t, ok)

	_, ok = FindEaten(Position{}, nil, DefaultEatRadius)
	assert.False(t, ok)
}
