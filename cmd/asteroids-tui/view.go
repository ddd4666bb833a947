package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"asteroid-field/game"
	"asteroid-field/render"
)

// Terminal cells are roughly twice as tall as they are wide
const (
	colsPerUnit = 6.0
	rowsPerUnit = 3.0
	hudRows     = 1
)

var arrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// viewportFor converts a terminal size into a world viewport
func viewportFor(cols, rows int) (width, height float64) {
	rows -= hudRows
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return float64(cols) / colsPerUnit, float64(rows) / rowsPerUnit
}

// cellOf projects a world position to a screen cell around the camera.
// World y grows upwards.
func cellOf(f render.Frame, cols, rows int, x, y float64) (int, int) {
	cx := float64(cols)/2 + (x-f.Camera.X)*colsPerUnit
	cy := float64(rows-hudRows)/2 - (y-f.Camera.Y)*rowsPerUnit
	return int(math.Floor(cx)), int(math.Floor(cy)) + hudRows
}

// arrowFor picks the arrow nearest to a heading
func arrowFor(rotation float64) rune {
	octant := int(math.Round(rotation/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return arrows[octant]
}

// glyphFor returns the rune and colour used for a sprite
func glyphFor(s render.Sprite) (rune, game.Color) {
	switch s.Kind {
	case game.KindShip:
		return arrowFor(s.Rotation), s.Colour
	case game.KindAsteroid:
		if s.Variant == "large" {
			return 'O', s.Colour
		}
		return 'o', s.Colour
	case game.KindEnemy:
		if s.Variant == "gunship" {
			return 'W', 0xf505ed
		}
		return 'V', 0xff6f3c
	case game.KindPlayerBullet:
		return '·', 0xffffff
	case game.KindEnemyBullet:
		return '•', 0xff3030
	}
	switch {
	case s.Opacity > 0.66:
		return '*', s.Colour
	case s.Opacity > 0.33:
		return ':', s.Colour
	}
	return '.', s.Colour
}

func styleOf(c game.Color) tcell.Style {
	r, g, b := c.RGB()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// draw paints a frame and the status line
func draw(screen tcell.Screen, f render.Frame, st game.Stats) {
	screen.Clear()
	cols, rows := screen.Size()
	for _, s := range f.Sprites {
		if s.Opacity <= 0 {
			continue
		}
		if s.Kind == game.KindAsteroid {
			fillDisc(screen, f, cols, rows, s)
		}
		x, y := cellOf(f, cols, rows, s.X, s.Y)
		if x < 0 || y < hudRows || x >= cols || y >= rows {
			continue
		}
		r, c := glyphFor(s)
		style := styleOf(c)
		if s.Kind == game.KindShip {
			style = style.Bold(true)
			if s.Opacity < 1 {
				style = style.Dim(true)
			}
		}
		screen.SetContent(x, y, r, nil, style)
	}
	drawText(screen, 0, 0, tcell.StyleDefault.Reverse(true), status(st, cols))
	screen.Show()
}

// fillDisc shades the cells covered by an asteroid's body
func fillDisc(screen tcell.Screen, f render.Frame, cols, rows int, s render.Sprite) {
	x0, y0 := cellOf(f, cols, rows, s.X-s.Radius, s.Y+s.Radius)
	x1, y1 := cellOf(f, cols, rows, s.X+s.Radius, s.Y-s.Radius)
	style := styleOf(s.Colour).Dim(true)
	for y := max(y0, hudRows); y <= min(y1, rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, cols-1); x++ {
			wx := f.Camera.X + (float64(x)+0.5-float64(cols)/2)/colsPerUnit
			wy := f.Camera.Y - (float64(y-hudRows)+0.5-float64(rows-hudRows)/2)/rowsPerUnit
			if game.Distance(game.Vec{X: wx, Y: wy}, game.Vec{X: s.X, Y: s.Y}) <= s.Radius {
				screen.SetContent(x, y, '░', nil, style)
			}
		}
	}
}

func status(st game.Stats, cols int) string {
	line := fmt.Sprintf(" frame %d  rocks %d  enemies %d  hits %d  shots %d  on screen %d/%d ",
		st.Frames, st.AsteroidsDestroyed, st.EnemiesDestroyed, st.ShipHits, st.Shots, st.Asteroids, st.Enemies)
	for len([]rune(line)) < cols {
		line += " "
	}
	return line
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
