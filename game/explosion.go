package game

import (
	"fmt"
	"math"
	"math/rand"
)

// ParticleOptions overrides the per-particle parameters of one burst.
// Unset values fall back to that burst's defaults.
type ParticleOptions struct {
	Amount    Value
	Colour    *Color
	Size      Value
	XYSpeed   Value
	ZSpeed    Value
	MinZSpeed Value // floor for the z divisor
	Spread    Value
	Opacity   Value
	Lifetime  Value
}

// Burst describes one batch of particles around a point
type Burst struct {
	Position  Vec
	Angle     Value // compass launch angle, see FromCompass
	XOffset   Value
	YOffset   Value
	Particles ParticleOptions
}

// Exploder emits the three co-triggered bursts of one collision
type Exploder interface {
	Explode(impact, blowback, explosion Burst) (int, error)
}

// ArtifactSink receives generated artifacts; the manager's pending queue
type ArtifactSink func(artifacts ...*Artifact)

// Explosions generates particle bursts and hands them to an ArtifactSink
type Explosions struct {
	add ArtifactSink
	rng *rand.Rand
}

// NewExplosions returns a generator feeding add
func NewExplosions(add ArtifactSink, rng *rand.Rand) *Explosions {
	return &Explosions{add: add, rng: rng}
}

type burstDefaults struct {
	amount    float64
	colour    Color
	size      float64
	xySpeed   Value
	zSpeed    Value
	minZSpeed float64
	lifetime  Value
	spread    Value
}

func (x *Explosions) uniform(min, max float64) Value {
	return Uniform(x.rng, min, max)
}

// impact and blowback draw one spread for the whole burst
func (x *Explosions) impactDefaults() burstDefaults {
	return burstDefaults{
		amount:    3,
		colour:    ColourFlame,
		size:      0.03,
		xySpeed:   x.uniform(0.02, 0.09),
		zSpeed:    x.uniform(-0.75, 0.75),
		minZSpeed: 1,
		lifetime:  x.uniform(0.2, 0.7),
		spread:    Fixed(x.uniform(-0.04, 0.04).Resolve()),
	}
}

func (x *Explosions) blowbackDefaults() burstDefaults {
	return burstDefaults{
		amount:    12,
		colour:    ColourFlame,
		size:      0.03,
		xySpeed:   x.uniform(0.02, 0.06),
		zSpeed:    x.uniform(-0.75, 0.75),
		minZSpeed: 1,
		lifetime:  x.uniform(0, 0.5),
		spread:    Fixed(x.uniform(-0.04, 0.04).Resolve()),
	}
}

func (x *Explosions) explosionDefaults() burstDefaults {
	return burstDefaults{
		amount:    12,
		colour:    ColourSmoke,
		size:      0.02,
		xySpeed:   x.uniform(0.01, 0.02),
		zSpeed:    x.uniform(0, 1.5),
		minZSpeed: 0.5,
		lifetime:  x.uniform(0, 0.5),
		spread:    x.uniform(0.03, 0.06),
	}
}

// particles resolves a burst into artifacts without enqueuing them
func (x *Explosions) particles(b Burst, d burstDefaults) []*Artifact {
	opts := b.Particles
	amount := int(math.Floor(opts.Amount.Or(Fixed(d.amount)).Resolve()))
	if amount <= 0 {
		return nil
	}
	colour := d.colour
	if opts.Colour != nil {
		colour = *opts.Colour
	}
	size := opts.Size.Or(Fixed(d.size))
	xySpeed := opts.XYSpeed.Or(d.xySpeed)
	zSpeed := opts.ZSpeed.Or(d.zSpeed)
	minZ := opts.MinZSpeed.Or(Fixed(d.minZSpeed))
	spread := opts.Spread.Or(d.spread)
	opacity := opts.Opacity.Or(x.uniform(0, 1))
	lifetime := opts.Lifetime.Or(d.lifetime)
	angle := b.Angle.Or(x.uniform(0, 2*math.Pi))
	xOff := b.XOffset.Or(x.uniform(-0.04, 0.04))
	yOff := b.YOffset.Or(x.uniform(-0.04, 0.04))

	out := make([]*Artifact, 0, amount)
	for i := 0; i < amount; i++ {
		xy := xySpeed.Resolve()
		z := zSpeed.Resolve()
		divisor := math.Max(minZ.Resolve(), z)
		vel := FromCompass(angle.Resolve()).Scale(xy / divisor)
		s := spread.Resolve()
		pos := Vec{
			X: b.Position.X + xOff.Resolve() + s*vel.X,
			Y: b.Position.Y + yOff.Resolve() + s*vel.Y,
		}
		life := lifetime.Resolve()
		if life <= 0 {
			life = DefaultLifetime(x.rng)
		}
		a := NewArtifact(StyleSpark, pos, vel, colour, size.Resolve(), opacity.Resolve(), life)
		a.VZ = z
		out = append(out, a)
	}
	return out
}

// Explode emits the impact, blowback and explosion bursts in that order and
// returns the number of particles enqueued
func (x *Explosions) Explode(impact, blowback, explosion Burst) (int, error) {
	if x == nil || x.add == nil || x.rng == nil {
		return 0, fmt.Errorf("explosions: %w", ErrMissingCollaborator)
	}
	total := 0
	for _, p := range []struct {
		burst    Burst
		defaults burstDefaults
	}{
		{impact, x.impactDefaults()},
		{blowback, x.blowbackDefaults()},
		{explosion, x.explosionDefaults()},
	} {
		particles := x.particles(p.burst, p.defaults)
		if len(particles) == 0 {
			continue
		}
		x.add(particles...)
		total += len(particles)
	}
	return total, nil
}

// DefaultLifetime is the lifetime given to artifacts created without one
func DefaultLifetime(rng *rand.Rand) float64 {
	return 1 + rng.Float64()*2
}

// AmountOf is a helper for the common "override only the count" case
func AmountOf(n int) ParticleOptions {
	return ParticleOptions{Amount: Fixed(float64(n))}
}
