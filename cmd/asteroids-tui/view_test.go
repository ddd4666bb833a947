package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"asteroid-field/game"
	"asteroid-field/render"
)

func TestArrowFor(t *testing.T) {
	tests := []struct {
		rotation float64
		want     rune
	}{
		{0, '→'},
		{math.Pi / 2, '↑'},
		{math.Pi, '←'},
		{-math.Pi / 2, '↓'},
		{-math.Pi / 4, '↘'},
		{3 * math.Pi / 4, '↖'},
	}
	for _, tt := range tests {
		if got := arrowFor(tt.rotation); got != tt.want {
			t.Errorf("arrowFor(%.2f) = %c, want %c", tt.rotation, got, tt.want)
		}
	}
}

func TestCellOfCentresCamera(t *testing.T) {
	f := render.Frame{Camera: game.Vec{X: 5, Y: -2}}
	x, y := cellOf(f, 80, 25, 5, -2)
	if x != 40 || y != 12+hudRows {
		t.Errorf("camera cell = (%d,%d), want (40,%d)", x, y, 12+hudRows)
	}
	// Positive y is up the screen
	_, above := cellOf(f, 80, 25, 5, -1)
	if above >= y {
		t.Errorf("expected y+1 above camera row, got row %d vs %d", above, y)
	}
}

func TestGlyphFor(t *testing.T) {
	if r, _ := glyphFor(render.Sprite{Kind: game.KindAsteroid, Variant: "large"}); r != 'O' {
		t.Errorf("large asteroid glyph = %c", r)
	}
	if r, _ := glyphFor(render.Sprite{Kind: game.KindEnemy, Variant: "gunship"}); r != 'W' {
		t.Errorf("gunship glyph = %c", r)
	}
	if r, _ := glyphFor(render.Sprite{Kind: game.KindArtifact, Opacity: 0.2}); r != '.' {
		t.Errorf("faded artifact glyph = %c", r)
	}
	if r, _ := glyphFor(render.Sprite{Kind: game.KindArtifact, Opacity: 0.9}); r != '*' {
		t.Errorf("fresh artifact glyph = %c", r)
	}
}

func TestDrawPutsShipAtCentre(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(80, 25)

	f := render.Frame{
		Camera: game.Vec{X: 1, Y: 1},
		Sprites: []render.Sprite{
			{Kind: game.KindShip, X: 1, Y: 1, Rotation: math.Pi / 2, Opacity: 1, Colour: 0x71bd31},
		},
	}
	draw(screen, f, game.Stats{Shots: 7})

	r, _, _, _ := screen.GetContent(40, 12+hudRows)
	if r != '↑' {
		t.Errorf("centre cell = %q, want ship arrow", r)
	}

	var hud strings.Builder
	for x := 0; x < 80; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		hud.WriteRune(r)
	}
	if !strings.Contains(hud.String(), "shots 7") {
		t.Errorf("status line missing shot count: %q", hud.String())
	}
}

func TestCuesBetween(t *testing.T) {
	prev := game.Stats{Shots: 1}
	cur := game.Stats{Shots: 2, AsteroidsDestroyed: 1, ShipHits: 1}
	got := cuesBetween(prev, cur)
	if len(got) != 3 || got[0] != cueShot || got[1] != cueExplosion || got[2] != cueHit {
		t.Errorf("cues = %v", got)
	}
	if got := cuesBetween(cur, cur); len(got) != 0 {
		t.Errorf("expected no cues for unchanged stats, got %v", got)
	}
}

func TestViewportFor(t *testing.T) {
	w, h := viewportFor(60, 31)
	if w != 10 || h != 10 {
		t.Errorf("viewport = %vx%v, want 10x10", w, h)
	}
}

func TestSummary(t *testing.T) {
	got := summary(game.Stats{Frames: 12345, AsteroidsDestroyed: 1200, Shots: 3}, 90*time.Second)
	want := "flew 1m30s over 12,345 frames: 1,200 rocks, 0 enemies, 0 hits taken, 3 shots"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestFieldDensityScalesDefault(t *testing.T) {
	if got := fieldDensity(1); got != game.DefaultAsteroidDensity {
		t.Errorf("fieldDensity(1) = %v, want %v", got, float64(game.DefaultAsteroidDensity))
	}
	if got := fieldDensity(0.5); got != game.DefaultAsteroidDensity/2 {
		t.Errorf("fieldDensity(0.5) = %v", got)
	}
	if got := fieldDensity(-2); got != 0 {
		t.Errorf("negative multiplier should clamp to 0, got %v", got)
	}
}
