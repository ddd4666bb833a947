package render

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"asteroid-field/game"
)

// Raster draws frames into PNG images
type Raster struct {
	Width      int // pixels
	Height     int
	Background color.Color
}

// NewRaster returns a raster producing width x height images on a white
// background
func NewRaster(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Background: color.White}
}

// scale is pixels per world unit
func (r *Raster) scale(f Frame) float64 {
	if f.Width <= 0 || f.Height <= 0 {
		return 1
	}
	return math.Min(float64(r.Width)/f.Width, float64(r.Height)/f.Height)
}

// Draw renders f centred on its camera
func (r *Raster) Draw(f Frame) image.Image {
	dc := gg.NewContext(r.Width, r.Height)
	dc.SetColor(r.Background)
	dc.Clear()

	k := r.scale(f)
	cx, cy := float64(r.Width)/2, float64(r.Height)/2
	// world y grows upward, image y grows downward
	toPixel := func(x, y float64) (float64, float64) {
		return cx + (x-f.Camera.X)*k, cy - (y-f.Camera.Y)*k
	}

	for _, s := range f.Sprites {
		if s.Opacity <= 0 {
			continue
		}
		x, y := toPixel(s.X, s.Y)
		radius := math.Max(s.Radius*k, 1)
		if x+radius < 0 || y+radius < 0 || x-radius > float64(r.Width) || y-radius > float64(r.Height) {
			continue
		}
		dc.SetColor(tint(s.Colour, s.Opacity))

		switch s.Kind {
		case game.KindShip:
			drawShip(dc, x, y, radius, s.Rotation)
		case game.KindAsteroid:
			sides := s.Sides
			if sides < 3 {
				sides = 7
			}
			dc.DrawRegularPolygon(sides, x, y, radius, -s.Rotation)
			dc.Fill()
		case game.KindEnemy:
			dc.DrawRegularPolygon(3, x, y, radius, -s.Rotation)
			dc.SetLineWidth(2)
			dc.Stroke()
		default:
			dc.DrawCircle(x, y, radius)
			dc.Fill()
		}
	}
	return dc.Image()
}

// EncodePNG renders f and writes it to w
func (r *Raster) EncodePNG(w io.Writer, f Frame) error {
	dc := gg.NewContextForImage(r.Draw(f))
	return dc.EncodePNG(w)
}

func drawShip(dc *gg.Context, x, y, radius, rotation float64) {
	dc.Push()
	dc.RotateAbout(-rotation, x, y)
	dc.MoveTo(x+radius, y)
	dc.LineTo(x-radius*.7, y-radius*.6)
	dc.LineTo(x-radius*.4, y)
	dc.LineTo(x-radius*.7, y+radius*.6)
	dc.ClosePath()
	dc.Fill()
	dc.Pop()
}

func tint(c game.Color, opacity float64) color.Color {
	r, g, b := c.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(game.Clamp(opacity, 0, 1) * 255)}
}
