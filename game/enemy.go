package game

import "math"

// Archetype selects an enemy's tuning
type Archetype int

const (
	// Rammer never slows down and never shoots; it flies into the ship
	Rammer Archetype = iota
	// Gunship spirals in, stops inside its decelerate radius and fires
	Gunship
)

func (a Archetype) String() string {
	if a == Gunship {
		return "gunship"
	}
	return "rammer"
}

// EnemyState is the steering state, re-evaluated every frame from range
type EnemyState int

const (
	Approach EnemyState = iota
	Engage
)

func (s EnemyState) String() string {
	if s == Engage {
		return "engage"
	}
	return "approach"
}

const (
	EnemyRadius      = 0.2
	EnemyAccel       = 0.002
	EnemyEngageGain  = 0.1
	EnemyExhaustRate = 30 // particles per second at 60 fps
	EnemyExhaustSize = 0.02
	FramesPerSecond  = 60
)

// Steering is the per-instance tuning of an enemy
type Steering struct {
	DecelerateRadius float64
	AngleOffset      float64 // added to the bearing while approaching
	Drag             float64
	Gain             float64 // fraction of the heading error turned per frame
	Accel            float64
	FirePeriod       uint64 // frames between shots; 0 never fires
	FirePhase        uint64
	ExhaustRate      int
}

// Enemy is a hostile craft steering toward the ship
type Enemy struct {
	Body
	Proximity
	Archetype Archetype
	Health    int
	Radius    float64
	Steering  Steering
	State     EnemyState
	hooks     Hooks
}

// NewEnemy builds an enemy of the given archetype at pos. Random per-instance
// tuning is drawn from hooks.Rand.
func NewEnemy(arch Archetype, pos Vec, hooks Hooks) *Enemy {
	e := &Enemy{
		Body:      newBody(pos, Vec{}),
		Archetype: arch,
		Radius:    EnemyRadius,
		hooks:     hooks,
	}
	switch arch {
	case Gunship:
		e.Health = 2
		e.Steering = Steering{
			DecelerateRadius: 2,
			Drag:             0.97,
			Gain:             0.1,
			Accel:            EnemyAccel,
			FirePeriod:       60,
			ExhaustRate:      EnemyExhaustRate,
		}
		if hooks.Rand != nil {
			e.Steering.AngleOffset = hooks.Rand.Float64()*math.Pi/4 - math.Pi/8
			e.Steering.FirePhase = uint64(hooks.Rand.Intn(60))
		}
	default:
		e.Health = 1
		e.Steering = Steering{
			Drag:        0.95,
			Gain:        0.15,
			Accel:       EnemyAccel,
			ExhaustRate: EnemyExhaustRate,
		}
	}
	return e
}

func (e *Enemy) Kind() Kind { return KindEnemy }

func (e *Enemy) HitRadius() float64 { return e.Radius }

// FiresBullets reports whether the archetype ever shoots
func (e *Enemy) FiresBullets() bool { return e.Steering.FirePeriod > 0 }

// stateFor is the steering state at distance rng from the ship
func (e *Enemy) stateFor(rng float64) EnemyState {
	if rng > e.Steering.DecelerateRadius {
		return Approach
	}
	return Engage
}

// Update steers the enemy using the cached bearing and range
func (e *Enemy) Update(frame uint64) error {
	if !e.Known {
		return nil
	}
	if e.Range > e.VisibleRadius()+DespawnMargin {
		e.MarkForRemoval()
		return nil
	}
	s := e.Steering
	e.State = e.stateFor(e.Range)
	if e.State == Approach {
		e.Spin = ShortestAngle(e.Rotation, e.Bearing+s.AngleOffset) * s.Gain
		e.Vel = e.Vel.Add(Heading(e.Rotation).Scale(s.Accel)).Scale(s.Drag)
		if s.ExhaustRate > 0 && frame%uint64(max(1, FramesPerSecond/s.ExhaustRate)) == 0 {
			if e.hooks.AddArtifacts == nil || e.hooks.Rand == nil {
				return missing("enemy", "artifact sink")
			}
			rng := e.hooks.Rand
			e.hooks.AddArtifacts(exhaustPlume(rng, e.Pos, e.Rotation, e.Radius, ColourEnemyExhaust, EnemyExhaustSize, rng.Float64()))
		}
		return nil
	}
	e.Spin = ShortestAngle(e.Rotation, e.Bearing) * EnemyEngageGain
	e.Vel = e.Vel.Scale(s.Drag)
	if s.FirePeriod > 0 && (frame+s.FirePhase)%s.FirePeriod == 0 {
		if e.hooks.AddBullets == nil {
			return missing("enemy", "bullet sink")
		}
		b := FireBullet(OwnerEnemy, e.Pos, e.Rotation)
		b.SetVisibleRadius(e.VisibleRadius())
		e.hooks.AddBullets(b)
	}
	return nil
}

// Hit takes damage from collider; the enemy dies at zero health.
func (e *Enemy) Hit(collider *Body, damage int) error {
	if e.PendingRemoval() {
		return nil
	}
	if e.hooks.Exploder == nil || e.hooks.Rand == nil {
		return missing("enemy", "exploder")
	}
	e.Health -= damage
	killed := e.Health <= 0
	if killed {
		e.MarkForRemoval()
	}
	impact, blowback, explosion := hitBursts(e.hooks.Rand, &e.Body, collider)
	impact.Particles = AmountOf(3)
	blowback.Particles = AmountOf(10)
	explosion.Particles = AmountOf(0)
	if killed {
		explosion.Particles = AmountOf(18)
	}
	_, err := e.hooks.Exploder.Explode(impact, blowback, explosion)
	return err
}
