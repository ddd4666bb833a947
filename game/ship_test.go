package game

import (
	"errors"
	"testing"
)

func testShip(seed int64) (*Ship, *sink, *fakeClock, *timerQueue) {
	s := &sink{}
	clock := &fakeClock{}
	timers := &timerQueue{}
	return newShip(s.hooks(seed), clock, timers), s, clock, timers
}

func TestShipFireIsEdgeTriggered(t *testing.T) {
	ship, s, _, _ := testShip(1)
	for frame := uint64(0); frame < 10; frame++ {
		ship.Steer(frame, KeyState{Fire: true})
	}
	if len(s.bullets) != 1 {
		t.Fatalf("holding fire should shoot once, got %d", len(s.bullets))
	}
	ship.Steer(10, KeyState{})
	ship.Steer(11, KeyState{Fire: true})
	if len(s.bullets) != 2 || ship.Shots != 2 {
		t.Errorf("re-pressing fire should shoot again, got %d bullets %d shots", len(s.bullets), ship.Shots)
	}
}

func TestShipBulletLeavesAlongHeading(t *testing.T) {
	ship, s, _, _ := testShip(1)
	ship.Pos = Vec{1, 1}
	ship.SetVisibleRadius(6)
	ship.Steer(1, KeyState{Fire: true})
	b := s.bullets[0]
	if !near(b.Pos.X, 1+BulletMuzzle) || !near(b.Pos.Y, 1) {
		t.Errorf("expected spawn 1/10 ahead, got %+v", b.Pos)
	}
	if !near(b.Vel.X, BulletSpeed) || !near(b.Vel.Y, 0) {
		t.Errorf("expected velocity (1/6, 0), got %+v", b.Vel)
	}
	if b.Owner != OwnerPlayer || b.Radius != BulletRadius || b.Damage != 1 || b.VisibleRadius() != 6 {
		t.Errorf("unexpected bullet %+v", b)
	}
}

func TestShipThrustAndDrag(t *testing.T) {
	ship, s, _, _ := testShip(1)
	ship.Steer(0, KeyState{Thrust: true})
	if !near(ship.Vel.X, ShipAccel*ShipDrag) || !near(ship.Vel.Y, 0) {
		t.Errorf("unexpected velocity %+v", ship.Vel)
	}
	if n := s.count(StyleExhaust); n != 1 {
		t.Errorf("expected an exhaust particle on an even frame, got %d", n)
	}
	ship.Steer(1, KeyState{Thrust: true})
	if n := s.count(StyleExhaust); n != 1 {
		t.Errorf("no exhaust on odd frames, got %d", n)
	}
	v := ship.Vel
	ship.Steer(2, KeyState{})
	if ship.Vel != v {
		t.Error("drag only applies while thrusting")
	}
	ship.Steer(3, KeyState{Brake: true})
	if !near(ship.Vel.X, v.X*ShipDrag*ShipBrakeDrag) {
		t.Errorf("brake should damp velocity, got %+v", ship.Vel)
	}
}

func TestShipRotationClampAndDrag(t *testing.T) {
	ship, _, _, _ := testShip(1)
	for frame := uint64(0); frame < 20; frame++ {
		ship.Steer(frame, KeyState{Left: true})
	}
	if !near(ship.Spin, ShipMaxSpin) {
		t.Errorf("expected spin clamped at %f, got %f", ShipMaxSpin, ship.Spin)
	}
	ship.Steer(20, KeyState{})
	if !near(ship.Spin, ShipMaxSpin*ShipRotDrag) {
		t.Errorf("expected rotational drag, got %f", ship.Spin)
	}
	for frame := uint64(21); frame < 60; frame++ {
		ship.Steer(frame, KeyState{Right: true})
	}
	if !near(ship.Spin, -ShipMaxSpin) {
		t.Errorf("expected spin clamped at %f, got %f", -ShipMaxSpin, ship.Spin)
	}
}

func TestShipInvincibilityTimer(t *testing.T) {
	ship, _, clock, timers := testShip(1)
	if !ship.Collide() {
		t.Fatal("first collision should count")
	}
	if !ship.Invincible || ship.Hits != 1 {
		t.Fatalf("expected invincible with 1 hit, got %v %d", ship.Invincible, ship.Hits)
	}
	if ship.Collide() {
		t.Error("collision while invincible should be ignored")
	}
	if len(clock.durations) != 1 || clock.durations[0] != InvincibleFor {
		t.Errorf("expected one %v timer, got %v", InvincibleFor, clock.durations)
	}
	clock.fire()
	if !ship.Invincible {
		t.Error("timer completion should wait for the frame-start drain")
	}
	if n := timers.drain(); n != 1 {
		t.Errorf("expected 1 drained callback, got %d", n)
	}
	if ship.Invincible || ship.Opacity != 1 {
		t.Errorf("expected vulnerable and opaque, got %v %f", ship.Invincible, ship.Opacity)
	}
}

func TestShipBlinksWhileInvincible(t *testing.T) {
	ship, _, _, _ := testShip(1)
	ship.Collide()
	ship.Steer(4, KeyState{})
	if ship.Opacity != 1 {
		t.Errorf("no toggle off the 5th frame, got %f", ship.Opacity)
	}
	ship.Steer(5, KeyState{})
	if ship.Opacity != BlinkOpacity {
		t.Errorf("expected blink opacity, got %f", ship.Opacity)
	}
	ship.Steer(10, KeyState{})
	if ship.Opacity != 1 {
		t.Errorf("expected opaque again, got %f", ship.Opacity)
	}
}

func TestShipMissingBulletSink(t *testing.T) {
	ship, _, _, _ := testShip(1)
	ship.hooks.AddBullets = nil
	if err := ship.Steer(0, KeyState{Fire: true}); !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("expected ErrMissingCollaborator, got %v", err)
	}
}

func TestKeyStateFlags(t *testing.T) {
	k := KeyState{Thrust: true, Right: true, Fire: true}
	if got := KeyStateFromFlags(k.Flags()); got != k {
		t.Errorf("expected %+v, got %+v", k, got)
	}
	if (KeyState{}).Flags() != 0 {
		t.Error("empty key state should pack to 0")
	}
}
