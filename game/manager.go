package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"
)

const (
	SpawnRingInner    = 3.0 // top-up spawn ring, added to the visible radius
	SpawnRingOuter    = 6.0
	InitialFillMin    = 2.0
	InitialFillMargin = 5.0
)

// Counts is a snapshot of pool sizes
type Counts struct {
	Asteroids     int
	Enemies       int
	PlayerBullets int
	EnemyBullets  int
	Artifacts     int
	Pending       int
}

// Manager owns the entity pools, their pending-add queues and the
// population targets derived from the visible radius.
type Manager struct {
	renderer Renderer
	rng      *rand.Rand
	clock    Clock
	timers   *timerQueue
	logger   *log.Logger

	density        float64
	enemyTarget    int
	asteroidTarget int
	visible        float64
	nextID         uint64
	emitted        uint64
	destroyed      [KindArtifact + 1]uint64

	ship          *Ship
	asteroids     pool[*Asteroid]
	enemies       pool[*Enemy]
	playerBullets pool[*Bullet]
	enemyBullets  pool[*Bullet]
	artifacts     pool[*Artifact]

	explosions *Explosions

	// collision scratch space
	grid    *SpatialGrid
	targets []Collidable
	buf     []int
}

// NewManager returns an empty manager drawing visuals through renderer
func NewManager(renderer Renderer, opts ...Option) *Manager {
	c := buildConfig(opts)
	return newManager(renderer, c, &timerQueue{})
}

func newManager(renderer Renderer, c config, timers *timerQueue) *Manager {
	m := &Manager{
		renderer:    renderer,
		rng:         c.rng,
		clock:       c.clock,
		timers:      timers,
		logger:      c.logger,
		density:     c.density,
		enemyTarget: c.enemyTarget,
		grid:        NewSpatialGrid(GridCellSize),
	}
	m.explosions = NewExplosions(m.AddArtifacts, m.rng)
	return m
}

// Hooks returns the capabilities handed to entities this manager spawns
func (m *Manager) Hooks() Hooks {
	return Hooks{
		AddAsteroids: m.AddAsteroids,
		AddBullets:   m.AddBullets,
		AddArtifacts: m.AddArtifacts,
		Exploder:     m.explosions,
		Rand:         m.rng,
	}
}

// Explosions returns the manager's particle generator
func (m *Manager) Explosions() *Explosions { return m.explosions }

// SetVisibleRadius recomputes the asteroid target and pushes d to every
// distance-aware entity, live or pending
func (m *Manager) SetVisibleRadius(d float64) {
	m.visible = d
	m.asteroidTarget = int(math.Floor(m.density * d))
	if m.ship != nil {
		m.ship.SetVisibleRadius(d)
	}
	m.asteroids.each(func(a *Asteroid) { a.SetVisibleRadius(d) })
	m.enemies.each(func(e *Enemy) { e.SetVisibleRadius(d) })
	m.playerBullets.each(func(b *Bullet) { b.SetVisibleRadius(d) })
	m.enemyBullets.each(func(b *Bullet) { b.SetVisibleRadius(d) })
}

// VisibleRadius is the last radius passed to SetVisibleRadius
func (m *Manager) VisibleRadius() float64 { return m.visible }

// AsteroidTarget is floor(density x visible radius)
func (m *Manager) AsteroidTarget() int { return m.asteroidTarget }

// EnemyTarget is the number of enemies kept alive
func (m *Manager) EnemyTarget() int { return m.enemyTarget }

// Destroyed is the number of entities of kind killed by collisions
func (m *Manager) Destroyed(kind Kind) uint64 {
	if kind < 0 || int(kind) >= len(m.destroyed) {
		return 0
	}
	return m.destroyed[kind]
}

// Emitted is the number of artifacts ever enqueued
func (m *Manager) Emitted() uint64 { return m.emitted }

func (m *Manager) prepare(b *Body) {
	if b.PendingRemoval() {
		return
	}
	if b.ID == 0 {
		m.nextID++
		b.ID = m.nextID
	}
	b.SetVisibleRadius(m.visible)
}

// Enqueue stages any entity for the next FlushAdds. Entities already
// flagged for removal are never staged.
func (m *Manager) Enqueue(e Entity) error {
	switch v := e.(type) {
	case *Asteroid:
		m.AddAsteroids(v)
	case *Enemy:
		m.AddEnemies(v)
	case *Bullet:
		m.AddBullets(v)
	case *Artifact:
		m.AddArtifacts(v)
	default:
		return fmt.Errorf("enqueue %T: %w", e, ErrUnknownEntity)
	}
	return nil
}

// AddAsteroids stages asteroids for the next FlushAdds
func (m *Manager) AddAsteroids(asteroids ...*Asteroid) {
	for _, a := range asteroids {
		m.prepare(&a.Body)
	}
	m.asteroids.enqueue(asteroids...)
}

// AddEnemies stages enemies for the next FlushAdds
func (m *Manager) AddEnemies(enemies ...*Enemy) {
	for _, e := range enemies {
		m.prepare(&e.Body)
	}
	m.enemies.enqueue(enemies...)
}

// AddBullets stages bullets into the pool matching their owner
func (m *Manager) AddBullets(bullets ...*Bullet) {
	for _, b := range bullets {
		m.prepare(&b.Body)
		if b.Owner == OwnerEnemy {
			m.enemyBullets.enqueue(b)
		} else {
			m.playerBullets.enqueue(b)
		}
	}
}

// AddArtifacts stages fading artifacts for the next FlushAdds
func (m *Manager) AddArtifacts(artifacts ...*Artifact) {
	for _, a := range artifacts {
		m.prepare(&a.Body)
	}
	m.emitted += uint64(m.artifacts.enqueue(artifacts...))
}

// Ship returns the player ship or ErrNoShip before Init
func (m *Manager) Ship() (*Ship, error) {
	if m.ship == nil {
		return nil, ErrNoShip
	}
	return m.ship, nil
}

// Init creates the ship at the origin and fills the field with the target
// number of asteroids between InitialFillMin and visible+InitialFillMargin
func (m *Manager) Init() error {
	if m.renderer == nil {
		return missing("manager", "renderer")
	}
	if m.ship != nil {
		return nil
	}
	ship := newShip(m.Hooks(), m.clock, m.timers)
	m.prepare(&ship.Body)
	m.ship = ship
	m.renderer.AddVisuals([]Entity{ship})
	m.addRandomAsteroids(m.asteroidTarget, InitialFillMin, m.visible+InitialFillMargin)
	m.logger.Printf("manager initialised: %d asteroids, visible radius %.2f", m.asteroidTarget, m.visible)
	return nil
}

// FlushAdds makes every pending entity live and registers its visual
func (m *Manager) FlushAdds() int {
	var added []Entity
	added = append(added, asEntities(m.playerBullets.flush())...)
	added = append(added, asEntities(m.enemyBullets.flush())...)
	added = append(added, asEntities(m.artifacts.flush())...)
	added = append(added, asEntities(m.enemies.flush())...)
	added = append(added, asEntities(m.asteroids.flush())...)
	if len(added) > 0 {
		m.renderer.AddVisuals(added)
	}
	return len(added)
}

// FlushRemoves drops flagged entities from the live pools, detaches their
// visuals and disposes them
func (m *Manager) FlushRemoves() int {
	var removed []Entity
	removed = append(removed, asEntities(m.playerBullets.sweep())...)
	removed = append(removed, asEntities(m.enemyBullets.sweep())...)
	removed = append(removed, asEntities(m.asteroids.sweep())...)
	removed = append(removed, asEntities(m.artifacts.sweep())...)
	removed = append(removed, asEntities(m.enemies.sweep())...)
	if len(removed) == 0 {
		return 0
	}
	m.renderer.RemoveVisuals(removed)
	for _, e := range removed {
		e.Base().Dispose()
	}
	return len(removed)
}

// FulfillTargets spawns asteroids and enemies on the ring outside the view
// until both pools reach their targets. Pending entities count toward it.
func (m *Manager) FulfillTargets() error {
	if m.ship == nil {
		return ErrNoShip
	}
	inner, outer := m.visible+SpawnRingInner, m.visible+SpawnRingOuter
	if n := m.asteroidTarget - m.asteroids.count(); n > 0 {
		m.addRandomAsteroids(n, inner, outer)
	}
	if n := m.enemyTarget - m.enemies.count(); n > 0 {
		m.addRandomEnemies(n, inner, outer)
	}
	return nil
}

// ringPoint returns a point at a uniform bearing and distance in [min, max)
// from the ship
func (m *Manager) ringPoint(min, max float64) Vec {
	ang := m.rng.Float64() * 2 * math.Pi
	dist := min + m.rng.Float64()*(max-min)
	return m.ship.Pos.Add(FromCompass(ang).Scale(dist))
}

func (m *Manager) addRandomAsteroids(n int, min, max float64) {
	if n <= 0 {
		return
	}
	hooks := m.Hooks()
	batch := make([]*Asteroid, 0, n)
	for i := 0; i < n; i++ {
		pos := m.ringPoint(min, max)
		size := Small
		if m.rng.Float64() > 0.5 {
			size = Large
		}
		batch = append(batch, NewAsteroid(size, pos, DriftVelocity(m.rng), hooks))
	}
	m.AddAsteroids(batch...)
}

func (m *Manager) addRandomEnemies(n int, min, max float64) {
	hooks := m.Hooks()
	batch := make([]*Enemy, 0, n)
	for i := 0; i < n; i++ {
		pos := m.ringPoint(min, max)
		arch := Rammer
		if m.rng.Float64() > 0.5 {
			arch = Gunship
		}
		batch = append(batch, NewEnemy(arch, pos, hooks))
	}
	m.AddEnemies(batch...)
}

// Update runs every live entity's behavior hook. Artifacts fade, bullets
// and hazards apply their despawn rules, enemies steer.
func (m *Manager) Update(frame uint64) error {
	for _, e := range m.enemies.live {
		if e.PendingRemoval() {
			continue
		}
		if err := e.Update(frame); err != nil {
			return err
		}
	}
	for _, a := range m.asteroids.live {
		if err := a.Update(frame); err != nil {
			return err
		}
	}
	for _, b := range m.playerBullets.live {
		if err := b.Update(frame); err != nil {
			return err
		}
	}
	for _, b := range m.enemyBullets.live {
		if err := b.Update(frame); err != nil {
			return err
		}
	}
	for _, a := range m.artifacts.live {
		if err := a.Update(frame); err != nil {
			return err
		}
	}
	return nil
}

// AnimateAll integrates motion for the ship and every live entity
func (m *Manager) AnimateAll() {
	if m.ship != nil {
		m.ship.Integrate()
	}
	for _, a := range m.asteroids.live {
		a.Integrate()
	}
	for _, e := range m.enemies.live {
		e.Integrate()
	}
	for _, b := range m.playerBullets.live {
		b.Integrate()
	}
	for _, b := range m.enemyBullets.live {
		b.Integrate()
	}
	for _, a := range m.artifacts.live {
		a.Integrate()
	}
}

// Asteroids returns the live asteroid pool; callers must not modify it
func (m *Manager) Asteroids() []*Asteroid { return m.asteroids.live }

// Enemies returns the live enemy pool
func (m *Manager) Enemies() []*Enemy { return m.enemies.live }

// Bullets returns the live bullets of one owner
func (m *Manager) Bullets(owner Owner) []*Bullet {
	if owner == OwnerEnemy {
		return m.enemyBullets.live
	}
	return m.playerBullets.live
}

// Artifacts returns the live artifact pool
func (m *Manager) Artifacts() []*Artifact { return m.artifacts.live }

// Counts returns live pool sizes plus the number of pending entities
func (m *Manager) Counts() Counts {
	return Counts{
		Asteroids:     len(m.asteroids.live),
		Enemies:       len(m.enemies.live),
		PlayerBullets: len(m.playerBullets.live),
		EnemyBullets:  len(m.enemyBullets.live),
		Artifacts:     len(m.artifacts.live),
		Pending: len(m.asteroids.pending) + len(m.enemies.pending) + len(m.playerBullets.pending) +
			len(m.enemyBullets.pending) + len(m.artifacts.pending),
	}
}

// Dispose detaches every live visual, releases every owned resource exactly
// once and empties the pools, queues and ship
func (m *Manager) Dispose() {
	var live []Entity
	if m.ship != nil {
		live = append(live, m.ship)
	}
	live = append(live, asEntities(m.playerBullets.live)...)
	live = append(live, asEntities(m.enemyBullets.live)...)
	live = append(live, asEntities(m.asteroids.live)...)
	live = append(live, asEntities(m.artifacts.live)...)
	live = append(live, asEntities(m.enemies.live)...)
	if len(live) > 0 && m.renderer != nil {
		m.renderer.RemoveVisuals(live)
	}
	for _, e := range live {
		e.Base().Dispose()
	}
	m.asteroids.each(func(a *Asteroid) { a.Dispose() })
	m.enemies.each(func(e *Enemy) { e.Dispose() })
	m.playerBullets.each(func(b *Bullet) { b.Dispose() })
	m.enemyBullets.each(func(b *Bullet) { b.Dispose() })
	m.artifacts.each(func(a *Artifact) { a.Dispose() })
	if m.ship != nil {
		m.ship.stopTimer()
	}
	m.asteroids.reset()
	m.enemies.reset()
	m.playerBullets.reset()
	m.enemyBullets.reset()
	m.artifacts.reset()
	m.ship = nil
	m.logger.Printf("manager disposed")
}
