package main

import (
	"sync"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"asteroid-field/game"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
	frames   [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, data)
}

func (m *mockBroadcaster) frameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EnemyTarget = 0
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGameSinglePilot(t *testing.T) {
	g := newTestGame(t)
	a, b := &mockBroadcaster{}, &mockBroadcaster{}

	if !g.SetPilot(a, "A", 0) {
		t.Fatal("first pilot should be accepted")
	}
	if g.SetPilot(b, "B", 0) {
		t.Error("second pilot should be rejected")
	}
	if !g.IsPilot(a) || g.IsPilot(b) {
		t.Error("wrong pilot recorded")
	}
	if name, _ := g.Pilot(); name != "A" {
		t.Errorf("expected pilot A, got %q", name)
	}
}

func TestGameInputOnlyFromPilot(t *testing.T) {
	g := newTestGame(t)
	pilot, other := &mockBroadcaster{}, &mockBroadcaster{}
	g.SetPilot(pilot, "P", 0)

	g.HandleInput(other, game.KeyState{Fire: true})
	if g.Keys().Fire {
		t.Error("input from a non-pilot should be ignored")
	}
	g.HandleInput(pilot, game.KeyState{Thrust: true})
	if !g.Keys().Thrust {
		t.Error("pilot input should be held")
	}
}

func TestGameUpdateBroadcasts(t *testing.T) {
	g := newTestGame(t)
	pilot, watcher := &mockBroadcaster{}, &mockBroadcaster{}
	g.SetPilot(pilot, "P", 0)
	g.AddSpectator(watcher)

	for i := 0; i < 4; i++ {
		if !g.update() {
			t.Fatal("update reported a failed engine")
		}
	}
	if n := pilot.frameCount(); n != 4/BroadcastEvery {
		t.Errorf("expected %d frames, got %d", 4/BroadcastEvery, n)
	}
	if watcher.frameCount() != pilot.frameCount() {
		t.Error("spectator and pilot should see the same frames")
	}

	var fs FrameState
	if err := msgpack.Unmarshal(pilot.frames[len(pilot.frames)-1], &fs); err != nil {
		t.Fatal(err)
	}
	if fs.Tick != 3 {
		t.Errorf("expected tick 3, got %d", fs.Tick)
	}
	if len(fs.Sprites) == 0 {
		t.Error("frame should carry sprites")
	}
	if g.Frame().Index != fs.Tick {
		t.Errorf("stored frame %d, broadcast %d", g.Frame().Index, fs.Tick)
	}

	g.RemoveSpectator(watcher)
	if g.SpectatorCount() != 0 {
		t.Errorf("expected 0 spectators, got %d", g.SpectatorCount())
	}
}

func TestGameStopReportsRun(t *testing.T) {
	g := newTestGame(t)
	pilot := &mockBroadcaster{}
	g.SetPilot(pilot, "P", 7)

	var summary RunSummary
	g.onEnd = func(s RunSummary) { summary = s }
	go g.Run()
	time.Sleep(50 * time.Millisecond)
	g.Stop(endPilotLeft)
	g.Stop(endShutdown)

	select {
	case <-g.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("game did not stop")
	}
	if summary.Reason != endPilotLeft {
		t.Errorf("first stop reason should stick, got %q", summary.Reason)
	}
	if summary.Frames == 0 || summary.Pilot != "P" {
		t.Errorf("unexpected summary %+v", summary)
	}
	if g.SetPilot(&mockBroadcaster{}, "late", 0) {
		t.Error("a stopped game should not accept pilots")
	}
}

func TestGameIdle(t *testing.T) {
	g := newTestGame(t)
	time.Sleep(5 * time.Millisecond)
	if g.IdleFor() == 0 {
		t.Error("game without clients should be idle")
	}
	w := &mockBroadcaster{}
	g.AddSpectator(w)
	if g.IdleFor() != 0 {
		t.Error("game with a spectator is not idle")
	}
}

func TestScore(t *testing.T) {
	if s := Score(3, 2, 1); s != 30+50-5 {
		t.Errorf("unexpected score %d", s)
	}
	if s := Score(0, 0, 4); s != 0 {
		t.Errorf("score should not go negative, got %d", s)
	}
}
