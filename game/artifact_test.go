package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestFadeIsMonotonicAndStopsAtZero(t *testing.T) {
	a := NewArtifact(StyleSpark, Vec{}, Vec{}, ColourFlame, 0.03, 0.5, 2)
	step := FadeStep / 2
	prev := a.Opacity
	for i := 0; i < 200 && !a.PendingRemoval(); i++ {
		a.Fade()
		if a.Opacity < 0 {
			t.Fatalf("opacity went negative: %f", a.Opacity)
		}
		if a.Opacity > 0 && math.Abs(prev-a.Opacity-step) > 1e-9 {
			t.Fatalf("expected step %f, got %f", step, prev-a.Opacity)
		}
		if a.Opacity > prev {
			t.Fatalf("opacity increased from %f to %f", prev, a.Opacity)
		}
		prev = a.Opacity
	}
	if !a.PendingRemoval() || a.Opacity != 0 {
		t.Fatalf("expected faded out and flagged, got opacity %f removed %v", a.Opacity, a.PendingRemoval())
	}
	for i := 0; i < 3; i++ {
		a.Fade()
	}
	if a.Opacity != 0 || !a.PendingRemoval() {
		t.Error("fading past zero must keep opacity 0 and the removal flag")
	}
}

func TestFadeZeroLifetime(t *testing.T) {
	a := NewArtifact(StyleDebris, Vec{}, Vec{}, ColourSmoke, 0.05, 1, 0)
	a.Fade()
	if a.Opacity != 0 || !a.PendingRemoval() {
		t.Error("zero lifetime artifact should vanish on first fade")
	}
}

func TestArtifactUpdateFades(t *testing.T) {
	a := NewArtifact(StyleExhaust, Vec{}, Vec{}, ColourShipExhaust, 0.03, 1, 1)
	if err := a.Update(0); err != nil {
		t.Fatal(err)
	}
	if !near(a.Opacity, 1-FadeStep) {
		t.Errorf("expected %f, got %f", 1-FadeStep, a.Opacity)
	}
}

func TestExhaustPlumeTrailsCraft(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		p := exhaustPlume(rng, Vec{}, 0, 0.2, ColourEnemyExhaust, 0.02, 0)
		// craft faces +X, so the plume leaves toward -X
		if p.Vel.X >= 0 {
			t.Fatalf("exhaust should move backwards, got %+v", p.Vel)
		}
		if p.Pos.X > -0.1 {
			t.Fatalf("exhaust should start behind the craft, got %+v", p.Pos)
		}
		if p.Lifetime < 1 || p.Lifetime >= 3 {
			t.Fatalf("default lifetime out of range: %f", p.Lifetime)
		}
		if p.Style != StyleExhaust {
			t.Fatalf("expected exhaust style, got %v", p.Style)
		}
	}
}
