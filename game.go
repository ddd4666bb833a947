package main

import (
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"asteroid-field/game"
	"asteroid-field/render"
)

const (
	TickRate       = game.FramesPerSecond // simulation frames per second
	BroadcastRate  = 30                   // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Reasons a game ends
const (
	endPilotLeft = "pilot_left"
	endIdle      = "idle"
	endError     = "error"
	endShutdown  = "shutdown"
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game hosts one simulation: an engine drawing into its own scene, one
// pilot feeding it keys and any number of spectators
type Game struct {
	mu         sync.RWMutex
	engine     *game.Engine
	scene      *render.Scene
	keys       game.KeyState
	pilot      Broadcaster
	pilotName  string
	pilotID    int64 // database id, 0 = not recorded
	spectators map[Broadcaster]bool
	frame      render.Frame // last broadcast snapshot
	counts     game.Counts
	destroyed  [2]uint64 // asteroids, enemies already reported to metrics
	started    time.Time
	idleSince  time.Time
	reason     string
	running    bool
	stop       chan struct{}
	done       chan struct{}
	onEnd      func(RunSummary)
}

// NewGame builds and starts a simulation sized by cfg
func NewGame(cfg Config) (*Game, error) {
	g := &Game{
		scene:      render.NewScene(cfg.ViewWidth, cfg.ViewHeight),
		spectators: make(map[Broadcaster]bool),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		started:    time.Now(),
		idleSince:  time.Now(),
		running:    true,
	}
	g.engine = game.NewEngine(g.scene, game.KeySourceFunc(g.Keys),
		game.WithAsteroidDensity(cfg.AsteroidDensity),
		game.WithEnemyTarget(cfg.EnemyTarget),
		game.WithCollisionStride(cfg.CollisionStride),
		game.WithSeed(time.Now().UnixNano()),
		game.WithLogger(log.Default()),
	)
	if err := g.engine.Start(); err != nil {
		return nil, err
	}
	g.frame = g.scene.Snapshot()
	return g, nil
}

// Keys returns the pilot's held keys
func (g *Game) Keys() game.KeyState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.keys
}

// Run drives the simulation until Stop; it then tears the engine down and
// reports the run
func (g *Game) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			if !g.update() {
				break loop
			}
		case <-g.stop:
			break loop
		}
	}
	g.finish()
}

// update runs one frame and broadcasts on broadcast frames. It returns
// false once the engine has failed.
func (g *Game) update() bool {
	t0 := time.Now()
	tick := g.scene.Tick()
	frameDuration.Observe(time.Since(t0).Seconds())
	framesTotal.Inc()

	if err := g.engine.Err(); err != nil {
		log.Printf("game engine failed: %v", err)
		g.mu.Lock()
		g.reason = endError
		g.mu.Unlock()
		return false
	}
	if tick%BroadcastEvery == 0 {
		g.broadcast()
	}
	return true
}

func (g *Game) broadcast() {
	frame := g.scene.Snapshot()
	st := g.engine.Stats()
	state := FrameState{
		Tick:      frame.Index,
		CameraX:   frame.Camera.X,
		CameraY:   frame.Camera.Y,
		Width:     frame.Width,
		Height:    frame.Height,
		Hits:      st.ShipHits,
		Shots:     st.Shots,
		Asteroids: st.AsteroidsDestroyed,
		Enemies:   st.EnemiesDestroyed,
		Sprites:   frame.Sprites,
	}
	for _, s := range frame.Sprites {
		if s.Kind == game.KindShip {
			state.Invincible = s.Variant == "invincible"
		}
	}
	data, err := msgpack.Marshal(&state)
	if err != nil {
		log.Printf("msgpack marshal error: %v", err)
		return
	}

	g.mu.Lock()
	g.frame = frame
	g.trackCounts(st)
	targets := g.audience()
	g.mu.Unlock()

	for _, c := range targets {
		c.SendBinary(data)
	}
}

// trackCounts moves the process-wide gauges by this game's change
func (g *Game) trackCounts(st game.Stats) {
	prev := g.counts
	entitiesLive.WithLabelValues("asteroid").Add(float64(st.Asteroids - prev.Asteroids))
	entitiesLive.WithLabelValues("enemy").Add(float64(st.Enemies - prev.Enemies))
	entitiesLive.WithLabelValues("bullet").Add(float64(st.PlayerBullets + st.EnemyBullets - prev.PlayerBullets - prev.EnemyBullets))
	entitiesLive.WithLabelValues("artifact").Add(float64(st.Artifacts - prev.Artifacts))
	g.counts = st.Counts

	destroyedTotal.WithLabelValues("asteroid").Add(float64(st.AsteroidsDestroyed - g.destroyed[0]))
	destroyedTotal.WithLabelValues("enemy").Add(float64(st.EnemiesDestroyed - g.destroyed[1]))
	g.destroyed = [2]uint64{st.AsteroidsDestroyed, st.EnemiesDestroyed}
}

// audience returns pilot and spectators; callers hold mu
func (g *Game) audience() []Broadcaster {
	out := make([]Broadcaster, 0, len(g.spectators)+1)
	if g.pilot != nil {
		out = append(out, g.pilot)
	}
	for c := range g.spectators {
		out = append(out, c)
	}
	return out
}

// Stop ends the game with the given reason. Only the first reason sticks.
func (g *Game) Stop(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reason == "" {
		g.reason = reason
	}
	select {
	case <-g.stop:
	default:
		close(g.stop)
	}
}

// Done is closed once the game has been torn down
func (g *Game) Done() <-chan struct{} { return g.done }

func (g *Game) finish() {
	st := g.engine.Stats()
	g.engine.Stop()

	g.mu.Lock()
	g.running = false
	g.trackCounts(game.Stats{AsteroidsDestroyed: st.AsteroidsDestroyed, EnemiesDestroyed: st.EnemiesDestroyed})
	reason := g.reason
	if reason == "" {
		reason = endShutdown
	}
	summary := RunSummary{
		Pilot:     g.pilotName,
		Reason:    reason,
		Duration:  time.Since(g.started).Seconds(),
		Frames:    st.Frames,
		Asteroids: st.AsteroidsDestroyed,
		Enemies:   st.EnemiesDestroyed,
		Hits:      st.ShipHits,
		Shots:     st.Shots,
		Score:     Score(int(st.AsteroidsDestroyed), int(st.EnemiesDestroyed), st.ShipHits),
	}
	onEnd := g.onEnd
	g.mu.Unlock()

	if onEnd != nil {
		onEnd(summary)
	}
	close(g.done)
}

// SetPilot attaches the flying client. It fails if another pilot is
// already attached.
func (g *Game) SetPilot(c Broadcaster, name string, pilotID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pilot != nil || !g.running {
		return false
	}
	g.pilot = c
	g.pilotName = name
	g.pilotID = pilotID
	g.keys = game.KeyState{}
	return true
}

// IsPilot reports whether c flies this game
func (g *Game) IsPilot(c Broadcaster) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pilot == c
}

// Pilot returns the pilot's name and database id
func (g *Game) Pilot() (string, int64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pilotName, g.pilotID
}

// HandleInput replaces the held keys if c is the pilot
func (g *Game) HandleInput(c Broadcaster, keys game.KeyState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pilot == c {
		g.keys = keys
	}
}

// AddSpectator registers a watching client
func (g *Game) AddSpectator(c Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return false
	}
	g.spectators[c] = true
	return true
}

// RemoveSpectator drops a watching client
func (g *Game) RemoveSpectator(c Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.spectators, c)
	if g.pilot == nil && len(g.spectators) == 0 {
		g.idleSince = time.Now()
	}
}

// SpectatorCount returns the number of watching clients
func (g *Game) SpectatorCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.spectators)
}

// IdleFor returns how long the game has had no clients, or 0 if it has any
func (g *Game) IdleFor() time.Duration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.pilot != nil || len(g.spectators) > 0 {
		return 0
	}
	return time.Since(g.idleSince)
}

// Frame returns the last broadcast snapshot
func (g *Game) Frame() render.Frame {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.frame
}

// Uptime returns the time since the game started
func (g *Game) Uptime() time.Duration { return time.Since(g.started) }
