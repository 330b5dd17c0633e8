package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/snakearena/pkg/protocol"
	"github.com/vango-dev/snakearena/pkg/world"
)

func players() []world.PlayerRecord {
	return []world.PlayerRecord{
		{ID: "c1", Name: "Ava", Snake: world.Snake{{X: 400, Y: 300}}},
		{ID: "c2", Name: "Bo", Snake: world.Snake{{X: 10, Y: 10}, {X: 8, Y: 10}}},
		{ID: "c3", Name: "Ava", Snake: world.Snake{{X: 50, Y: 50}}},
	}
}

func TestMirrorExcludesSelfByName(t *testing.T) {
	m := NewMirror("Ava")
	m.ApplyActivePlayers(players())

	require.Len(t, m.Others(), 1)
	assert.Equal(t, "Bo", m.Others()[0].Name)
}

func TestMirrorExcludesSelfByID(t *testing.T) {
	m := NewMirror("Ava")
	m.ApplyWelcome("c1")
	m.ApplyActivePlayers(players())

	require.Len(t, m.Others(), 2)
	assert.Equal(t, "c2", m.Others()[0].ID)
	assert.Equal(t, "c3", m.Others()[1].ID, "a namesake is a different player")
}

func TestMirrorReplacesFood(t *testing.T) {
	m := NewMirror("Ava")

	assert.True(t, m.Apply(protocol.InitFood{Food: []world.FoodItem{{ID: "a"}, {ID: "b"}}}))
	assert.Len(t, m.Food(), 2)

	assert.True(t, m.Apply(protocol.UpdateFood{Food: []world.FoodItem{{ID: "c"}}}))
	assert.Equal(t, []world.FoodItem{{ID: "c"}}, m.Food())
}

func TestMirrorCopiesInput(t *testing.T) {
	m := NewMirror("Ava")
	in := players()
	m.ApplyActivePlayers(in)

	in[1].Snake[0].X = 999
	assert.Equal(t, 10.0, m.Others()[0].Snake[0].X)
}

func TestMirrorIgnoresClientEvents(t *testing.T) {
	m := NewMirror("Ava")
	assert.False(t, m.Apply(protocol.FoodEaten{FoodID: "x"}))
}

func TestMirrorReset(t *testing.T) {
	m := NewMirror("Ava")
	m.ApplyWelcome("c1")
	m.ApplyInitFood([]world.FoodItem{{ID: "a"}})
	m.ApplyActivePlayers(players())

	m.Reset()
	assert.Empty(t, m.SelfID())
	assert.Empty(t, m.Food())
	assert.Empty(t, m.Others())
	assert.Equal(t, "Ava", m.SelfName())
}
