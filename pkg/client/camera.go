package client

import "github.com/vango-dev/snakearena/pkg/world"

// cullMargin keeps items that straddle the viewport edge.
const cullMargin = 10

// Camera centres the viewport on the local head.
type Camera struct {
	Viewport world.Bounds
	Offset   world.Position
}

// NewCamera returns a camera with the given viewport size.
func NewCamera(viewport world.Bounds) *Camera {
	return &Camera{Viewport: viewport}
}

// Follow sets the offset so head sits at the viewport centre.
func (c *Camera) Follow(head world.Position) {
	c.Offset = world.Position{
		X: head.X - c.Viewport.Width/2,
		Y: head.Y - c.Viewport.Height/2,
	}
}

// Project maps a world position to viewport coordinates.
func (c *Camera) Project(p world.Position) world.Position {
	return world.Position{X: p.X - c.Offset.X, Y: p.Y - c.Offset.Y}
}

// Visible reports whether p projects inside the viewport grown by margin on every side.
func (c *Camera) Visible(p world.Position, margin float64) bool {
	v := c.Project(p)
	return v.X >= -margin && v.X <= c.Viewport.Width+margin &&
		v.Y >= -margin && v.Y <= c.Viewport.Height+margin
}

// SnakeView is a projected snake.
type SnakeView struct {
	ID       string
	Name     string
	Segments []world.Position
}

// Frame is everything a view needs to draw one picture. Positions are in viewport
// coordinates and already culled.
type Frame struct {
	State    State
	Score    int
	Name     string
	Viewport world.Bounds
	Offset   world.Position

	Food   []world.Position
	Others []SnakeView
	Self   []world.Position
}

// Frame follows the local head and projects the mirror and the local snake.
func (c *Camera) Frame(m *Mirror, s *Sim) Frame {
	c.Follow(s.Head())

	f := Frame{
		State:    s.State(),
		Score:    s.Score(),
		Name:     m.SelfName(),
		Viewport: c.Viewport,
		Offset:   c.Offset,
	}
	for _, item := range m.Food() {
		if p := item.Position(); c.Visible(p, cullMargin) {
			f.Food = append(f.Food, c.Project(p))
		}
	}
	for _, p := range m.Others() {
		segs := c.projectAll(p.Snake)
		if len(segs) == 0 {
			continue
		}
		f.Others = append(f.Others, SnakeView{ID: p.ID, Name: p.Name, Segments: segs})
	}
	f.Self = c.projectAll(s.snake)
	return f
}

func (c *Camera) projectAll(snake world.Snake) []world.Position {
	var out []world.Position
	for _, p := range snake {
		if c.Visible(p, cullMargin) {
			out = append(out, c.Project(p))
		}
	}
	return out
}
