package world

import "math"

// Position is a point in world coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by v.
func (p Position) Add(v Velocity) Position {
	return Position{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Velocity is the per-tick displacement of a snake head.
type Velocity struct {
	DX float64
	DY float64
}

// Horizontal reports whether the velocity moves along the x axis.
func (v Velocity) Horizontal() bool { return v.DX != 0 }

// Vertical reports whether the velocity moves along the y axis.
func (v Velocity) Vertical() bool { return v.DY != 0 }

// Bounds is the closed rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width  float64
	Height float64
}

// Clamp pins p into the bounds.
func (b Bounds) Clamp(p Position) Position {
	return Position{
		X: math.Max(0, math.Min(b.Width, p.X)),
		Y: math.Max(0, math.Min(b.Height, p.Y)),
	}
}

// Contains reports whether p lies inside the bounds, edges included.
func (b Bounds) Contains(p Position) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Snake is an ordered list of segments, head first.
type Snake []Position

// NewSnake returns a length-1 snake at p.
func NewSnake(p Position) Snake {
	return Snake{p}
}

// Head returns the first segment. An empty snake has a zero head.
func (s Snake) Head() Position {
	if len(s) == 0 {
		return Position{}
	}
	return s[0]
}

// Len returns the number of segments.
func (s Snake) Len() int { return len(s) }

// Clone returns a copy that shares no memory with s.
func (s Snake) Clone() Snake {
	if s == nil {
		return nil
	}
	out := make(Snake, len(s))
	copy(out, s)
	return out
}

// Step advances the snake by one tick: the clamped new head is prepended and, unless grow
// is set, the tail is dropped. The receiver is not modified.
func (s Snake) Step(v Velocity, b Bounds, grow bool) Snake {
	head := b.Clamp(s.Head().Add(v))
	out := make(Snake, 0, len(s)+1)
	out = append(out, head)
	out = append(out, s...)
	if !grow && len(out) > 1 {
		out = out[:len(out)-1]
	}
	return out
}
