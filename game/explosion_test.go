package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestExplodeDefaultParticleCount(t *testing.T) {
	var got []*Artifact
	x := NewExplosions(func(a ...*Artifact) { got = append(got, a...) }, rand.New(rand.NewSource(1)))
	n, err := x.Explode(Burst{}, Burst{}, Burst{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 27 || len(got) != 27 {
		t.Errorf("expected 3+12+12 = 27 particles, got %d (sink %d)", n, len(got))
	}
	flame, smoke := 0, 0
	for _, a := range got {
		switch a.Colour {
		case ColourFlame:
			flame++
		case ColourSmoke:
			smoke++
		}
	}
	if flame != 15 || smoke != 12 {
		t.Errorf("expected 15 flame and 12 smoke particles, got %d and %d", flame, smoke)
	}
}

func TestExplodeMissingSink(t *testing.T) {
	x := NewExplosions(nil, rand.New(rand.NewSource(1)))
	if _, err := x.Explode(Burst{}, Burst{}, Burst{}); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("expected ErrMissingCollaborator, got %v", err)
	}
	var none *Explosions
	if _, err := none.Explode(Burst{}, Burst{}, Burst{}); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("expected ErrMissingCollaborator from nil generator, got %v", err)
	}
}

func TestExplodeOverrides(t *testing.T) {
	var got []*Artifact
	x := NewExplosions(func(a ...*Artifact) { got = append(got, a...) }, rand.New(rand.NewSource(1)))
	white := Color(0xffffff)
	b := Burst{
		Position: Vec{1, 2},
		Angle:    Fixed(0),
		XOffset:  Fixed(0),
		YOffset:  Fixed(0),
		Particles: ParticleOptions{
			Amount:    Fixed(5),
			Colour:    &white,
			Size:      Fixed(0.1),
			XYSpeed:   Fixed(0.1),
			ZSpeed:    Fixed(2),
			MinZSpeed: Fixed(1),
			Spread:    Fixed(3),
			Opacity:   Fixed(0.5),
			Lifetime:  Fixed(0.4),
		},
	}
	none := Burst{Particles: AmountOf(0)}
	n, err := x.Explode(b, none, none)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("expected 5, got %d", n)
	}
	for _, a := range got {
		// angle 0 is straight up: (sin 0, cos 0) * 0.1 / max(1, 2)
		if !near(a.Vel.X, 0) || !near(a.Vel.Y, 0.05) {
			t.Errorf("unexpected velocity %+v", a.Vel)
		}
		if !near(a.Pos.X, 1) || !near(a.Pos.Y, 2+3*0.05) {
			t.Errorf("spawn should be pushed out by spread x velocity, got %+v", a.Pos)
		}
		if a.Colour != white || a.Size != 0.1 || a.Opacity != 0.5 || a.Lifetime != 0.4 || a.VZ != 2 {
			t.Errorf("override not applied: %+v", a)
		}
	}
}

func TestExplodeZSpeedFloor(t *testing.T) {
	var got []*Artifact
	x := NewExplosions(func(a ...*Artifact) { got = append(got, a...) }, rand.New(rand.NewSource(1)))
	b := Burst{
		Angle: Fixed(math.Pi / 2),
		Particles: ParticleOptions{
			Amount:    Fixed(1),
			XYSpeed:   Fixed(0.1),
			ZSpeed:    Fixed(0.0001),
			MinZSpeed: Fixed(0.5),
			Spread:    Fixed(0),
		},
	}
	none := Burst{Particles: AmountOf(0)}
	if _, err := x.Explode(none, none, b); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 particle, got %d", len(got))
	}
	if !near(got[0].Vel.X, 0.2) {
		t.Errorf("near-zero z speed should be floored at 0.5, got vx %f", got[0].Vel.X)
	}
}

func TestExplodeNonPositiveLifetimeGetsDefault(t *testing.T) {
	var got []*Artifact
	x := NewExplosions(func(a ...*Artifact) { got = append(got, a...) }, rand.New(rand.NewSource(2)))
	b := Burst{Particles: ParticleOptions{Amount: Fixed(20), Lifetime: Fixed(0)}}
	none := Burst{Particles: AmountOf(0)}
	if _, err := x.Explode(b, none, none); err != nil {
		t.Fatal(err)
	}
	for _, a := range got {
		if a.Lifetime < 1 || a.Lifetime >= 3 {
			t.Errorf("expected default lifetime in [1,3), got %f", a.Lifetime)
		}
	}
}

func TestExplodeDefaultsStayInRange(t *testing.T) {
	var got []*Artifact
	x := NewExplosions(func(a ...*Artifact) { got = append(got, a...) }, rand.New(rand.NewSource(9)))
	for i := 0; i < 20; i++ {
		if _, err := x.Explode(Burst{}, Burst{}, Burst{}); err != nil {
			t.Fatal(err)
		}
	}
	for _, a := range got {
		speed := a.Vel.Len()
		// impact peaks at 0.09 / 1, explosion at 0.02 / 0.5
		if speed > 0.09 {
			t.Errorf("particle too fast: %f", speed)
		}
		if a.Opacity < 0 || a.Opacity > 1 {
			t.Errorf("opacity out of range: %f", a.Opacity)
		}
		if a.Pos.Len() > 0.2 {
			t.Errorf("particle spawned too far from origin: %+v", a.Pos)
		}
	}
}
