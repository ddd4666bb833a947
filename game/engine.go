package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// Stats is a snapshot of an engine's counters
type Stats struct {
	Frames             uint64
	LastFrame          uint64
	Shots              int
	ShipHits           int
	AsteroidsDestroyed uint64
	EnemiesDestroyed   uint64
	ParticlesEmitted   uint64
	Counts
}

// Engine runs the per-frame pipeline over a Manager. The renderer calls it
// once per rendered frame through the callback registered by Start.
type Engine struct {
	mu       sync.Mutex
	renderer Renderer
	keys     KeySource
	manager  *Manager
	timers   *timerQueue
	stride   uint64
	logger   *log.Logger

	started bool
	err     error
	frames  uint64
	last    uint64
	shots   int
	hits    int
}

// NewEngine builds an engine; nothing happens until Start
func NewEngine(renderer Renderer, keys KeySource, opts ...Option) *Engine {
	c := buildConfig(opts)
	timers := &timerQueue{}
	return &Engine{
		renderer: renderer,
		keys:     keys,
		manager:  newManager(renderer, c, timers),
		timers:   timers,
		stride:   c.stride,
		logger:   c.logger,
	}
}

// Start sizes the field from the renderer, creates the ship and initial
// asteroids and registers the frame callback
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.renderer == nil {
		return missing("engine", "renderer")
	}
	if e.keys == nil {
		return missing("engine", "key source")
	}
	if e.started {
		return nil
	}
	e.manager.SetVisibleRadius(e.renderer.VisibleRadius())
	if err := e.manager.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	e.started = true
	e.renderer.OnFrame(e.onFrame)
	return nil
}

func (e *Engine) onFrame(frame uint64) {
	if err := e.Frame(frame); err != nil && !isCorrupted(err) {
		e.logger.Printf("frame %d failed: %v", frame, err)
	}
}

// Frame runs one frame. After any failure the engine refuses further frames
// with ErrCorrupted.
func (e *Engine) Frame(frame uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return fmt.Errorf("%w (%v)", ErrCorrupted, e.err)
	}
	if err := e.frame(frame); err != nil {
		e.err = err
		return err
	}
	e.frames++
	e.last = frame
	if ship, err := e.manager.Ship(); err == nil {
		e.shots, e.hits = ship.Shots, ship.Hits
	}
	return nil
}

func (e *Engine) frame(frame uint64) error {
	m := e.manager
	ship, err := m.Ship()
	if err != nil {
		return err
	}
	e.timers.drain()
	if r := e.renderer.VisibleRadius(); r != m.VisibleRadius() {
		m.SetVisibleRadius(r)
	}
	keys := e.keys.Keys()

	// (a) pending entities become live and collidable
	m.FlushAdds()

	// (b) player bullets against hazards
	if frame%e.stride == 0 {
		if _, err := m.ResolveBulletHits(); err != nil {
			return fmt.Errorf("bullet hits: %w", err)
		}
	}

	// (c) proximity, ramming and enemy fire against the ship
	if err := m.RefreshBullets(); err != nil {
		return err
	}
	if frame%3 == 0 {
		if err := m.RefreshAsteroids(); err != nil {
			return err
		}
		if _, err := m.RamAsteroids(); err != nil {
			return fmt.Errorf("asteroid ram: %w", err)
		}
	}
	if (frame+1)%3 == 0 {
		if err := m.RefreshEnemies(); err != nil {
			return err
		}
		if _, err := m.RamEnemies(); err != nil {
			return fmt.Errorf("enemy ram: %w", err)
		}
	}
	if _, err := m.ResolveShipHits(); err != nil {
		return fmt.Errorf("ship hits: %w", err)
	}

	// (d) behavior hooks
	if err := ship.Steer(frame, keys); err != nil {
		return err
	}
	if err := m.Update(frame); err != nil {
		return fmt.Errorf("update: %w", err)
	}

	// (e) purge what died this frame
	m.FlushRemoves()

	// (f) restore population targets
	if err := m.FulfillTargets(); err != nil {
		return err
	}

	// (g) motion
	m.AnimateAll()

	// (h) camera follow
	e.renderer.SetCamera(ship.Pos)
	return nil
}

// Stop deregisters the frame callback and disposes every entity
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	e.started = false
	e.renderer.OnFrame(nil)
	e.manager.Dispose()
}

// Err returns the error that corrupted the engine, if any
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// View runs fn with the manager while no frame is in progress
func (e *Engine) View(fn func(m *Manager)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.manager)
}

// Stats returns the current counters
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.manager
	return Stats{
		Frames:             e.frames,
		LastFrame:          e.last,
		AsteroidsDestroyed: m.Destroyed(KindAsteroid),
		EnemiesDestroyed:   m.Destroyed(KindEnemy),
		ParticlesEmitted:   m.Emitted(),
		Shots:              e.shots,
		ShipHits:           e.hits,
		Counts:             m.Counts(),
	}
}

func isCorrupted(err error) bool {
	return errors.Is(err, ErrCorrupted)
}
