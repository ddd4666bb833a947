package game

import (
	"math"
	"math/rand"
)

// AsteroidSize is the size class of an asteroid
type AsteroidSize int

const (
	Small AsteroidSize = iota
	Large
)

func (s AsteroidSize) String() string {
	if s == Large {
		return "large"
	}
	return "small"
}

const (
	AsteroidBaseRadius = 0.3
	AsteroidDrift      = 0.005 // max per-axis speed of a fresh asteroid
	DespawnMargin      = 7.0   // beyond the outer spawn ring so top-up never churns

	FissionSpread = math.Pi / 4
	FissionJitter = 0.2
	FissionSpeed  = 1.0 / 60
	FissionOffset = 1.0 / 10

	DebrisSize = 0.05
)

// Asteroid drifts until destroyed. LARGE ones split into two SMALL ones.
type Asteroid struct {
	Body
	Proximity
	Size   AsteroidSize
	Radius float64
	Sides  int
	hooks  Hooks
}

// NewAsteroid builds an asteroid of size at pos moving with vel
func NewAsteroid(size AsteroidSize, pos, vel Vec, hooks Hooks) *Asteroid {
	a := &Asteroid{
		Body:   newBody(pos, vel),
		Size:   size,
		Radius: AsteroidBaseRadius * float64(size+1),
		Sides:  6,
		hooks:  hooks,
	}
	if hooks.Rand != nil {
		a.Sides = 6 + hooks.Rand.Intn(3)
	}
	return a
}

// DriftVelocity is the random slow velocity of a freshly spawned asteroid
func DriftVelocity(rng *rand.Rand) Vec {
	return Vec{
		X: rng.Float64()*2*AsteroidDrift - AsteroidDrift,
		Y: rng.Float64()*2*AsteroidDrift - AsteroidDrift,
	}
}

func (a *Asteroid) Kind() Kind { return KindAsteroid }
func (a *Asteroid) HitRadius() float64 { return a.Radius }

// Update despawns the asteroid once it drifts out past the margin
func (a *Asteroid) Update(frame uint64) error {
	if a.Known && a.Range > a.VisibleRadius()+DespawnMargin {
		a.MarkForRemoval()
	}
	return nil
}

// Hit destroys the asteroid whatever the damage: it explodes, sheds debris
// and, when LARGE, launches two SMALL children either side of the
// collider's travel direction.
func (a *Asteroid) Hit(collider *Body, damage int) error {
	if a.PendingRemoval() {
		return nil
	}
	h := a.hooks
	switch {
	case h.Exploder == nil:
		return missing("asteroid", "exploder")
	case h.AddArtifacts == nil:
		return missing("asteroid", "artifact sink")
	case h.Rand == nil:
		return missing("asteroid", "rand")
	case a.Size == Large && h.AddAsteroids == nil:
		return missing("asteroid", "asteroid sink")
	}
	a.MarkForRemoval()

	impact, blowback, explosion := hitBursts(h.Rand, &a.Body, collider)
	if _, err := h.Exploder.Explode(impact, blowback, explosion); err != nil {
		return err
	}

	travel := Compass(collider.Vel)
	var debris []*Artifact
	if a.Size == Large {
		children := make([]*Asteroid, 0, 2)
		for _, side := range []float64{1, -1} {
			ang := travel + side*FissionSpread + h.Rand.Float64()*2*FissionJitter - FissionJitter
			dir := FromCompass(ang)
			child := NewAsteroid(Small, a.Pos.Add(dir.Scale(FissionOffset)), dir.Scale(FissionSpeed), h)
			child.SetVisibleRadius(a.VisibleRadius())
			children = append(children, child)
			debris = append(debris, a.fragment(ang+FissionSpread+h.Rand.Float64()))
		}
		h.AddAsteroids(children...)
	}
	debris = append(debris,
		a.fragment(travel+math.Pi/2+h.Rand.Float64()),
		a.fragment(travel+h.Rand.Float64()),
	)
	h.AddArtifacts(debris...)
	return nil
}

// fragment is a tumbling rock chip thrown out along compass angle ang
func (a *Asteroid) fragment(ang float64) *Artifact {
	rng := a.hooks.Rand
	z := rng.Float64()*3 - 1.5
	dir := FromCompass(ang)
	vel := dir.Scale(FissionSpeed / math.Max(0.5, z))
	f := NewArtifact(StyleDebris, a.Pos.Add(dir.Scale(FissionOffset)), vel, ColourSmoke, DebrisSize, 1, rng.Float64()*0.6+0.7)
	f.VZ = z
	f.Spin = rng.Float64()*0.2 - 0.1
	return f
}

// hitBursts aims the impact burst back toward the collider and the blowback
// along its travel, both at the collider's position. The explosion burst sits
// on the victim.
func hitBursts(rng *rand.Rand, victim, collider *Body) (impact, blowback, explosion Burst) {
	impactAngle := CompassBetween(victim.Pos, collider.Pos)
	travelAngle := Compass(collider.Vel)
	impact = Burst{
		Position: collider.Pos,
		Angle:    Gen(func() float64 { return impactAngle + rng.Float64()*0.5 - 0.25 }),
	}
	blowback = Burst{
		Position: collider.Pos,
		Angle:    Gen(func() float64 { return travelAngle + rng.Float64()*0.2 - 0.1 }),
	}
	explosion = Burst{Position: victim.Pos}
	return impact, blowback, explosion
}
