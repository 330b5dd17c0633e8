package client

import (
	"fmt"

	"github.com/vango-dev/snakearena/pkg/world"
)

// State is a phase of the local game.
type State int

const (
	// StateIdle has no name and no connection.
	StateIdle State = iota
	// StateStopped is joined but not ticking.
	StateStopped
	// StateRunning ticks and accepts turns.
	StateRunning
	// StateGameOver shows the game-over overlay. Restart returns to Running.
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Direction is a turn intent.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// TickResult reports what one tick did.
type TickResult struct {
	// Moved is false when the sim is not running.
	Moved bool

	// Ate is set when the new head hit food. FoodID names the first match.
	Ate    bool
	FoodID string
}

// Sim is the local, predicted simulation of the player's own snake. It is not safe for
// concurrent use; the client runtime owns it from one goroutine.
type Sim struct {
	state    State
	snake    world.Snake
	velocity world.Velocity
	score    int

	speed     float64
	spawn     world.Position
	bounds    world.Bounds
	eatRadius float64
}

// NewSim returns an idle sim with the snake at the spawn point.
func NewSim(config *world.Config, speed float64) *Sim {
	config = config.WithDefaults()
	if speed <= 0 {
		speed = DefaultSpeed
	}
	s := &Sim{
		speed:     speed,
		spawn:     config.Spawn,
		bounds:    config.Bounds,
		eatRadius: config.EatRadius,
	}
	s.reset()
	return s
}

func (s *Sim) reset() {
	s.snake = world.NewSnake(s.spawn)
	s.velocity = world.Velocity{DX: s.speed}
	s.score = 0
}

// State returns the current phase.
func (s *Sim) State() State { return s.state }

// Snake returns a copy of the local snake.
func (s *Sim) Snake() world.Snake { return s.snake.Clone() }

// Head returns the local head.
func (s *Sim) Head() world.Position { return s.snake.Head() }

// Velocity returns the current per-tick displacement.
func (s *Sim) Velocity() world.Velocity { return s.velocity }

// Score returns the optimistic local score. The server never confirms it.
func (s *Sim) Score() int { return s.score }

// Join moves Idle to Stopped with a fresh snake.
func (s *Sim) Join() error {
	if s.state != StateIdle {
		return s.invalid("join")
	}
	s.reset()
	s.state = StateStopped
	return nil
}

// Start begins ticking.
func (s *Sim) Start() error {
	if s.state != StateStopped {
		return s.invalid("start")
	}
	s.state = StateRunning
	return nil
}

// Stop pauses ticking without resetting.
func (s *Sim) Stop() error {
	if s.state != StateRunning {
		return s.invalid("stop")
	}
	s.state = StateStopped
	return nil
}

// EndGame shows the game-over overlay.
func (s *Sim) EndGame() error {
	if s.state != StateRunning && s.state != StateStopped {
		return s.invalid("end")
	}
	s.state = StateGameOver
	return nil
}

// Restart resets the snake and score and resumes ticking under the same identity.
func (s *Sim) Restart() error {
	if s.state != StateGameOver {
		return s.invalid("restart")
	}
	s.reset()
	s.state = StateRunning
	return nil
}

// Quit resets everything and returns to Idle. It is valid from any state.
func (s *Sim) Quit() {
	s.reset()
	s.state = StateIdle
}

func (s *Sim) invalid(op string) error {
	return fmt.Errorf("%s from %s: %w", op, s.state, ErrInvalidTransition)
}

// Turn changes direction. It is accepted only while running and only onto the axis
// orthogonal to the current motion, so the snake can never reverse in place.
func (s *Sim) Turn(d Direction) bool {
	if s.state != StateRunning {
		return false
	}
	switch d {
	case Up, Down:
		if s.velocity.Vertical() {
			return false
		}
		dy := s.speed
		if d == Up {
			dy = -s.speed
		}
		s.velocity = world.Velocity{DY: dy}
	case Left, Right:
		if s.velocity.Horizontal() {
			return false
		}
		dx := s.speed
		if d == Left {
			dx = -s.speed
		}
		s.velocity = world.Velocity{DX: dx}
	default:
		return false
	}
	return true
}

// Tick advances one step: the new head is clamped to the world, tested against food,
// and the tail is kept on a hit so the snake grows. Outside Running it does nothing.
func (s *Sim) Tick(food []world.FoodItem) TickResult {
	if s.state != StateRunning {
		return TickResult{}
	}

	head := s.bounds.Clamp(s.snake.Head().Add(s.velocity))
	eaten, ate := world.FindEaten(head, food, s.eatRadius)
	s.snake = s.snake.Step(s.velocity, s.bounds, ate)

	res := TickResult{Moved: true}
	if ate {
		s.score++
		res.Ate = true
		res.FoodID = eaten.ID
	}
	return res
}
