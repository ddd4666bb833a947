package render

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"asteroid-field/game"
)

// Scene is the visual registry the simulation draws into. It answers the
// geometry queries, tracks the camera and drives the frame callback.
//
// Entity fields are read by Snapshot, so Snapshot must not run while a
// frame is in progress: call it from the goroutine that calls Tick.
type Scene struct {
	mu      sync.Mutex
	width   float64 // viewport in world units
	height  float64
	camera  game.Vec
	visuals map[uint64]game.Entity
	handles map[uint64]bool
	onFrame func(uint64)
	frame   uint64
}

// NewScene returns an empty scene with a width x height viewport
func NewScene(width, height float64) *Scene {
	return &Scene{
		width:   width,
		height:  height,
		visuals: make(map[uint64]game.Entity),
		handles: make(map[uint64]bool),
	}
}

// Resize changes the viewport; the engine picks the new visible radius up
// on its next frame
func (s *Scene) Resize(width, height float64) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// Viewport returns the viewport size in world units
func (s *Scene) Viewport() (width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// AddVisuals registers entities and hands each one a release handle
func (s *Scene) AddVisuals(entities []game.Entity) {
	s.mu.Lock()
	for _, e := range entities {
		id := e.Base().ID
		s.visuals[id] = e
		s.handles[id] = true
	}
	s.mu.Unlock()
	for _, e := range entities {
		id := e.Base().ID
		e.Base().Attach(game.ResourceFunc(func() { s.release(id) }))
	}
}

func (s *Scene) release(id uint64) {
	s.mu.Lock()
	delete(s.handles, id)
	s.mu.Unlock()
}

// RemoveVisuals detaches entities from the scene
func (s *Scene) RemoveVisuals(entities []game.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		delete(s.visuals, e.Base().ID)
	}
}

func (s *Scene) DistanceBetween(a, b game.Vec) float64 { return game.Distance(a, b) }

func (s *Scene) BearingBetween(a, b game.Vec) float64 { return game.Bearing(a, b) }

// VisibleRadius is half the viewport diagonal
func (s *Scene) VisibleRadius() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return math.Hypot(s.width, s.height) / 2
}

func (s *Scene) SetCamera(pos game.Vec) {
	s.mu.Lock()
	s.camera = pos
	s.mu.Unlock()
}

// Camera returns the last position passed to SetCamera
func (s *Scene) Camera() game.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

func (s *Scene) OnFrame(fn func(frame uint64)) {
	s.mu.Lock()
	s.onFrame = fn
	s.mu.Unlock()
}

// Tick invokes the frame callback once with the next frame index and
// returns that index
func (s *Scene) Tick() uint64 {
	s.mu.Lock()
	frame := s.frame
	s.frame++
	fn := s.onFrame
	s.mu.Unlock()
	if fn != nil {
		fn(frame)
	}
	return frame
}

// Run ticks at fps until ctx is cancelled. after, if set, runs on the same
// goroutine right after every tick.
func (s *Scene) Run(ctx context.Context, fps int, after func(frame uint64)) error {
	if fps <= 0 {
		fps = game.FramesPerSecond
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			frame := s.Tick()
			if after != nil {
				after(frame)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Len is the number of attached visuals
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visuals)
}

// Handles is the number of release handles not yet released
func (s *Scene) Handles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Snapshot captures every attached visual, ordered by kind then id
func (s *Scene) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := Frame{
		Index:   s.frame,
		Camera:  s.camera,
		Width:   s.width,
		Height:  s.height,
		Sprites: make([]Sprite, 0, len(s.visuals)),
	}
	for _, e := range s.visuals {
		f.Sprites = append(f.Sprites, SpriteOf(e))
	}
	sort.Slice(f.Sprites, func(i, j int) bool {
		a, b := f.Sprites[i], f.Sprites[j]
		if a.Kind != b.Kind {
			return a.Kind > b.Kind // artifacts first, ship drawn last
		}
		return a.ID < b.ID
	})
	return f
}
