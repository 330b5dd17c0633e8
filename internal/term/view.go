package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/vango-dev/snakearena/pkg/client"
	"github.com/vango-dev/snakearena/pkg/world"
)

const (
	runeFood = '*'
	runeHead = '@'
	runeBody = 'o'
	runeFoe  = '+'
)

var (
	styleFood   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSelf   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleOther  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// grid maps viewport coordinates onto the cells above the status line.
type grid struct {
	cols, rows int
	viewport   world.Bounds
}

func (g grid) cell(p world.Position) (int, int, bool) {
	if g.cols <= 0 || g.rows <= 0 || g.viewport.Width <= 0 || g.viewport.Height <= 0 {
		return 0, 0, false
	}
	x := int(math.Floor(p.X / g.viewport.Width * float64(g.cols)))
	y := int(math.Floor(p.Y / g.viewport.Height * float64(g.rows)))
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return 0, 0, false
	}
	return x, y, true
}

// Draw paints f onto screen. The last row holds the status line. It does not call Show.
func Draw(screen tcell.Screen, f client.Frame) {
	screen.Clear()
	cols, rows := screen.Size()
	if rows < 2 {
		return
	}
	g := grid{cols: cols, rows: rows - 1, viewport: f.Viewport}

	for _, p := range f.Food {
		if x, y, ok := g.cell(p); ok {
			screen.SetContent(x, y, runeFood, nil, styleFood)
		}
	}

	for _, o := range f.Others {
		for i := len(o.Segments) - 1; i >= 0; i-- {
			if x, y, ok := g.cell(o.Segments[i]); ok {
				screen.SetContent(x, y, runeFoe, nil, styleOther)
			}
		}
		if x, y, ok := g.cell(o.Segments[0]); ok && y > 0 {
			drawText(screen, x, y-1, cols, o.Name, styleLabel)
		}
	}

	// Self last so it stays on top.
	for i := len(f.Self) - 1; i >= 0; i-- {
		if x, y, ok := g.cell(f.Self[i]); ok {
			r := runeBody
			if i == 0 {
				r = runeHead
			}
			screen.SetContent(x, y, r, nil, styleSelf)
		}
	}

	drawStatus(screen, cols, rows-1, f)
}

// StatusLine is the text of the bottom row.
func StatusLine(f client.Frame) string {
	return fmt.Sprintf(" %s | score %d | %s | pos %.0f,%.0f | %s",
		f.Name, f.Score, f.State, f.Offset.X+f.Viewport.Width/2, f.Offset.Y+f.Viewport.Height/2, hint(f.State))
}

func hint(s client.State) string {
	switch s {
	case client.StateStopped:
		return "s start  q quit"
	case client.StateRunning:
		return "arrows steer  p stop  e end  q quit"
	case client.StateGameOver:
		return "r restart  q quit"
	default:
		return "q quit"
	}
}

func drawStatus(screen tcell.Screen, cols, row int, f client.Frame) {
	for x := 0; x < cols; x++ {
		screen.SetContent(x, row, ' ', nil, styleStatus)
	}
	drawText(screen, 0, row, cols, StatusLine(f), styleStatus)
}

func drawText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxX {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
