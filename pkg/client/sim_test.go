package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/snakearena/pkg/world"
)

func runningSim(t *testing.T) *Sim {
	t.Helper()
	s := NewSim(world.DefaultConfig(), DefaultSpeed)
	require.NoError(t, s.Join())
	require.NoError(t, s.Start())
	return s
}

func TestSimInitialState(t *testing.T) {
	s := NewSim(nil, 0)

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, world.Snake{{X: 400, Y: 300}}, s.Snake())
	assert.Equal(t, world.Velocity{DX: 2}, s.Velocity())
	assert.Zero(t, s.Score())
}

func TestSimTransitions(t *testing.T) {
	s := NewSim(world.DefaultConfig(), DefaultSpeed)

	require.ErrorIs(t, s.Start(), ErrInvalidTransition)
	require.NoError(t, s.Join())
	assert.Equal(t, StateStopped, s.State())
	require.ErrorIs(t, s.Join(), ErrInvalidTransition)

	require.NoError(t, s.Start())
	assert.Equal(t, StateRunning, s.State())
	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.State())
	require.ErrorIs(t, s.Restart(), ErrInvalidTransition)

	require.NoError(t, s.Start())
	require.NoError(t, s.EndGame())
	assert.Equal(t, StateGameOver, s.State())
	require.ErrorIs(t, s.Stop(), ErrInvalidTransition)

	require.NoError(t, s.Restart())
	assert.Equal(t, StateRunning, s.State())

	s.Quit()
	assert.Equal(t, StateIdle, s.State())
}

func TestSimTickOnlyWhileRunning(t *testing.T) {
	s := NewSim(world.DefaultConfig(), DefaultSpeed)
	require.NoError(t, s.Join())

	res := s.Tick(nil)
	assert.False(t, res.Moved)
	assert.Equal(t, world.Position{X: 400, Y: 300}, s.Head())

	require.NoError(t, s.Start())
	res = s.Tick(nil)
	assert.True(t, res.Moved)
	assert.Equal(t, world.Position{X: 402, Y: 300}, s.Head())
	assert.Equal(t, 1, s.Snake().Len())
}

func TestSimDirectionRule(t *testing.T) {
	s := runningSim(t)

	// Moving horizontally: only vertical turns are accepted.
	assert.False(t, s.Turn(Left))
	assert.False(t, s.Turn(Right))
	assert.Equal(t, world.Velocity{DX: 2}, s.Velocity())

	assert.True(t, s.Turn(Up))
	assert.Equal(t, world.Velocity{DY: -2}, s.Velocity())

	// Moving vertically: only horizontal turns are accepted.
	assert.False(t, s.Turn(Down))
	assert.False(t, s.Turn(Up))
	assert.True(t, s.Turn(Left))
	assert.Equal(t, world.Velocity{DX: -2}, s.Velocity())
}

func TestSimTurnIgnoredWhenNotRunning(t *testing.T) {
	s := NewSim(world.DefaultConfig(), DefaultSpeed)
	assert.False(t, s.Turn(Up))

	require.NoError(t, s.Join())
	assert.False(t, s.Turn(Up))
	assert.Equal(t, world.Velocity{DX: 2}, s.Velocity())
}

func TestSimClampsToWorldEdge(t *testing.T) {
	cfg := world.DefaultConfig()
	cfg.Spawn = world.Position{X: 1999, Y: 300}
	s := NewSim(cfg, 6)
	require.NoError(t, s.Join())
	require.NoError(t, s.Start())

	s.Tick(nil)
	assert.Equal(t, world.Position{X: 2000, Y: 300}, s.Head())

	s.Tick(nil)
	assert.Equal(t, world.Position{X: 2000, Y: 300}, s.Head())
}

func TestSimGrowsOnFood(t *testing.T) {
	s := runningSim(t)
	food := []world.FoodItem{
		{ID: "far", X: 100, Y: 100},
		{ID: "near", X: 405, Y: 305},
		{ID: "also", X: 402, Y: 300},
	}

	res := s.Tick(food)
	require.True(t, res.Ate)
	assert.Equal(t, "near", res.FoodID, "first match in list order wins")
	assert.Equal(t, 2, s.Snake().Len())
	assert.Equal(t, 1, s.Score())

	res = s.Tick(nil)
	assert.False(t, res.Ate)
	assert.Equal(t, 2, s.Snake().Len())
}

func TestSimLengthNonDecreasingWhileRunning(t *testing.T) {
	s := runningSim(t)
	food := []world.FoodItem{{ID: "a", X: 420, Y: 300}}

	prev := s.Snake().Len()
	for i := 0; i < 40; i++ {
		if i == 10 {
			s.Turn(Down)
		}
		s.Tick(food)
		require.GreaterOrEqual(t, s.Snake().Len(), prev)
		prev = s.Snake().Len()
	}
}

func TestSimRestartResets(t *testing.T) {
	s := runningSim(t)
	s.Turn(Down)
	s.Tick([]world.FoodItem{{ID: "a", X: 400, Y: 302}})
	require.Equal(t, 1, s.Score())

	require.NoError(t, s.EndGame())
	require.NoError(t, s.Restart())

	assert.Equal(t, world.Snake{{X: 400, Y: 300}}, s.Snake())
	assert.Equal(t, world.Velocity{DX: 2}, s.Velocity())
	assert.Zero(t, s.Score())
}
