package game

// Kind tags an entity with the pool it lives in
type Kind int

const (
	KindShip Kind = iota
	KindAsteroid
	KindEnemy
	KindPlayerBullet
	KindEnemyBullet
	KindArtifact
)

var kindNames = [...]string{"ship", "asteroid", "enemy", "player_bullet", "enemy_bullet", "artifact"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Resource is something an entity owns and must release when destroyed,
// typically a renderer-side handle.
type Resource interface {
	Release()
}

// ResourceFunc adapts a function to Resource
type ResourceFunc func()

func (f ResourceFunc) Release() { f() }

// Body is the shared motion state of every entity
type Body struct {
	ID       uint64
	Pos      Vec
	Z        float64 // depth drift, cosmetic only
	Rotation float64
	Vel      Vec
	VZ       float64
	Spin     float64
	Opacity  float64

	removed       bool
	disposed      bool
	visibleRadius float64
	resources     []Resource
}

func newBody(pos Vec, vel Vec) Body {
	return Body{Pos: pos, Vel: vel, Opacity: 1}
}

// Base returns the body itself; embedding Body gives every entity Positioned
func (b *Body) Base() *Body { return b }

// Integrate advances position and rotation by one frame of velocity
func (b *Body) Integrate() {
	b.Pos.X += b.Vel.X
	b.Pos.Y += b.Vel.Y
	b.Z += b.VZ
	b.Rotation += b.Spin
}

// MarkForRemoval flags the entity; it is purged by the next remove flush
func (b *Body) MarkForRemoval() { b.removed = true }

// PendingRemoval reports whether the entity is flagged for removal
func (b *Body) PendingRemoval() bool { return b.removed }

// SetVisibleRadius updates the distance used by despawn rules
func (b *Body) SetVisibleRadius(d float64) { b.visibleRadius = d }

// VisibleRadius returns the distance used by despawn rules
func (b *Body) VisibleRadius() float64 { return b.visibleRadius }

// Attach hands ownership of r to the entity
func (b *Body) Attach(r Resource) {
	if b.disposed {
		r.Release()
		return
	}
	b.resources = append(b.resources, r)
}

// Dispose releases owned resources. Only the first call releases anything;
// it reports whether this call did the work.
func (b *Body) Dispose() bool {
	if b.disposed {
		return false
	}
	b.disposed = true
	for _, r := range b.resources {
		r.Release()
	}
	b.resources = nil
	return true
}

// Disposed reports whether Dispose has run
func (b *Body) Disposed() bool { return b.disposed }

// Positioned is anything with a Body
type Positioned interface {
	Base() *Body
}

// Entity is a Positioned value that lives in one of the manager's pools
type Entity interface {
	Positioned
	Kind() Kind
}

// Collidable entities can be hit by bullets or the ship
type Collidable interface {
	Entity
	HitRadius() float64
	// Hit applies a collision with collider carrying damage
	Hit(collider *Body, damage int) error
}

// Steerable entities run a behavior hook once per frame
type Steerable interface {
	Update(frame uint64) error
}

// Proximity caches bearing and range to the ship between refreshes
type Proximity struct {
	Bearing float64 // atan2 angle from the entity to the ship
	Range   float64
	Known   bool
}

// SetProximity stores a freshly computed bearing and range
func (p *Proximity) SetProximity(bearing, rng float64) {
	p.Bearing = bearing
	p.Range = rng
	p.Known = true
}

// Snapshot returns a copy of the cached values
func (p *Proximity) Snapshot() Proximity { return *p }

type proximate interface {
	Positioned
	SetProximity(bearing, rng float64)
	Snapshot() Proximity
}
