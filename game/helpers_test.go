package game

import (
	"math/rand"
	"time"
)

type fakeRenderer struct {
	radius  float64
	camera  Vec
	visuals map[uint64]Entity
	adds    int
	removes int
	fn      func(uint64)
}

func newFakeRenderer(radius float64) *fakeRenderer {
	return &fakeRenderer{radius: radius, visuals: make(map[uint64]Entity)}
}

func (r *fakeRenderer) AddVisuals(entities []Entity) {
	for _, e := range entities {
		r.visuals[e.Base().ID] = e
	}
	r.adds += len(entities)
}

func (r *fakeRenderer) RemoveVisuals(entities []Entity) {
	for _, e := range entities {
		delete(r.visuals, e.Base().ID)
	}
	r.removes += len(entities)
}

func (r *fakeRenderer) DistanceBetween(a, b Vec) float64 { return Distance(a, b) }
func (r *fakeRenderer) BearingBetween(a, b Vec) float64  { return Bearing(a, b) }
func (r *fakeRenderer) VisibleRadius() float64           { return r.radius }
func (r *fakeRenderer) SetCamera(pos Vec)                { r.camera = pos }
func (r *fakeRenderer) OnFrame(fn func(uint64))          { r.fn = fn }

type fakeTimer struct {
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	durations []time.Duration
	pending   []func()
	timers    []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{}
	c.durations = append(c.durations, d)
	c.pending = append(c.pending, f)
	c.timers = append(c.timers, t)
	return t
}

// fire runs every timer that was not stopped
func (c *fakeClock) fire() {
	for i, f := range c.pending {
		if !c.timers[i].stopped {
			c.timers[i].stopped = true
			f()
		}
	}
	c.pending, c.timers = nil, nil
}

// sink records everything entities push out
type sink struct {
	asteroids []*Asteroid
	bullets   []*Bullet
	artifacts []*Artifact
}

func (s *sink) hooks(seed int64) Hooks {
	rng := rand.New(rand.NewSource(seed))
	h := Hooks{
		AddAsteroids: func(a ...*Asteroid) { s.asteroids = append(s.asteroids, a...) },
		AddBullets:   func(b ...*Bullet) { s.bullets = append(s.bullets, b...) },
		AddArtifacts: func(a ...*Artifact) { s.artifacts = append(s.artifacts, a...) },
		Rand:         rng,
	}
	h.Exploder = NewExplosions(h.AddArtifacts, rng)
	return h
}

func (s *sink) count(style ArtifactStyle) int {
	n := 0
	for _, a := range s.artifacts {
		if a.Style == style {
			n++
		}
	}
	return n
}

func testManager(radius float64, opts ...Option) (*Manager, *fakeRenderer) {
	r := newFakeRenderer(radius)
	opts = append([]Option{WithSeed(1), WithClock(&fakeClock{})}, opts...)
	m := NewManager(r, opts...)
	m.SetVisibleRadius(radius)
	return m, r
}

type counter struct {
	n int
}

func (c *counter) Release() { c.n++ }
