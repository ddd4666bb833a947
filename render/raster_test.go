package render

import (
	"bytes"
	"image/png"
	"testing"

	"asteroid-field/game"
)

func TestRasterDrawsSprites(t *testing.T) {
	r := NewRaster(100, 100)
	f := Frame{
		Width:  10,
		Height: 10,
		Sprites: []Sprite{
			{Kind: game.KindAsteroid, Radius: 1, Opacity: 1, Colour: 0xff0000},
		},
	}
	img := r.Draw(f)
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("unexpected bounds %v", b)
	}
	cr, cg, cb, _ := img.At(50, 50).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0 || cb>>8 != 0 {
		t.Errorf("centre should be red, got %d %d %d", cr>>8, cg>>8, cb>>8)
	}
	cr, cg, cb, _ = img.At(2, 2).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0xff || cb>>8 != 0xff {
		t.Errorf("corner should be background, got %d %d %d", cr>>8, cg>>8, cb>>8)
	}
}

func TestRasterAsteroidOutlineFollowsSides(t *testing.T) {
	r := NewRaster(100, 100)
	frame := func(sides int) Frame {
		return Frame{
			Width:  10,
			Height: 10,
			Sprites: []Sprite{
				{Kind: game.KindAsteroid, Radius: 1, Opacity: 1, Colour: 0xff0000, Sides: sides},
			},
		}
	}
	// a point three quarters of the radius below the centre is inside a
	// heptagon but outside an upright triangle
	cr, cg, _, _ := r.Draw(frame(7)).At(50, 57).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0 {
		t.Errorf("heptagon should cover the point, got %d %d", cr>>8, cg>>8)
	}
	cr, cg, _, _ = r.Draw(frame(3)).At(50, 57).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0xff {
		t.Errorf("triangle should leave the point empty, got %d %d", cr>>8, cg>>8)
	}
}

func TestRasterFollowsCamera(t *testing.T) {
	r := NewRaster(100, 100)
	f := Frame{
		Camera: game.Vec{X: 100},
		Width:  10,
		Height: 10,
		Sprites: []Sprite{
			{Kind: game.KindAsteroid, Radius: 1, Opacity: 1, Colour: 0xff0000},
		},
	}
	cr, cg, _, _ := r.Draw(f).At(50, 50).RGBA()
	if cr>>8 != 0xff || cg>>8 != 0xff {
		t.Error("off-camera sprite should not be drawn")
	}
}

func TestRasterEncodePNG(t *testing.T) {
	s := NewScene(12, 12)
	e := startEngine(t, s, game.KeyState{Fire: true})
	defer e.Stop()
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	var buf bytes.Buffer
	if err := NewRaster(64, 48).EncodePNG(&buf, s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("unexpected bounds %v", b)
	}
}
