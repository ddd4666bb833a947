package game

import (
	"math"
	"testing"
)

func TestCheckCollisionBoundary(t *testing.T) {
	if CheckCollision(Vec{0.5, 0}, Vec{}, 0.5) {
		t.Error("distance == radius must not collide")
	}
	if !CheckCollision(Vec{0.5 - 1e-9, 0}, Vec{}, 0.5) {
		t.Error("distance just inside radius must collide")
	}
}

// hazardField returns an initialised manager with no spawned hazards
func hazardField(t *testing.T) (*Manager, *Ship) {
	t.Helper()
	m, _ := testManager(0, WithEnemyTarget(0))
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	ship, _ := m.Ship()
	return m, ship
}

func TestBulletHitBoundary(t *testing.T) {
	m, _ := hazardField(t)
	a := NewAsteroid(Small, Vec{0, 5}, Vec{}, m.Hooks())
	a.Radius = 0.5
	edge := NewBullet(OwnerPlayer, Vec{0.5, 5}, Vec{0, BulletSpeed})
	m.AddAsteroids(a)
	m.AddBullets(edge)
	m.FlushAdds()

	hits, err := m.ResolveBulletHits()
	if err != nil {
		t.Fatal(err)
	}
	if hits != 0 || a.PendingRemoval() || edge.PendingRemoval() {
		t.Fatal("bullet exactly on the hit radius must miss")
	}

	inside := NewBullet(OwnerPlayer, Vec{0.5 - 1e-9, 5}, Vec{0, BulletSpeed})
	m.AddBullets(inside)
	m.FlushAdds()
	hits, err = m.ResolveBulletHits()
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 || !a.PendingRemoval() || !inside.PendingRemoval() {
		t.Error("bullet just inside the hit radius must hit")
	}
	if edge.PendingRemoval() {
		t.Error("the missing bullet should be untouched")
	}
}

func TestBulletFirstMatchWins(t *testing.T) {
	m, _ := hazardField(t)
	first := NewAsteroid(Small, Vec{3, 3}, Vec{}, m.Hooks())
	second := NewAsteroid(Small, Vec{3.05, 3}, Vec{}, m.Hooks())
	m.AddAsteroids(first, second)
	b := NewBullet(OwnerPlayer, Vec{3.02, 3}, Vec{BulletSpeed, 0})
	m.AddBullets(b)
	m.FlushAdds()

	hits, err := m.ResolveBulletHits()
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Fatalf("a bullet can only hit once, got %d", hits)
	}
	if !first.PendingRemoval() || second.PendingRemoval() {
		t.Error("the first hazard in pool order should take the hit")
	}
}

func TestBulletsSkipRemovedHazards(t *testing.T) {
	m, _ := hazardField(t)
	dead := NewAsteroid(Small, Vec{3, 3}, Vec{}, m.Hooks())
	alive := NewEnemy(Gunship, Vec{3, 3}, m.Hooks())
	m.AddAsteroids(dead)
	m.AddEnemies(alive)
	m.AddBullets(NewBullet(OwnerPlayer, Vec{3, 3}, Vec{BulletSpeed, 0}))
	m.FlushAdds()
	dead.MarkForRemoval()

	if _, err := m.ResolveBulletHits(); err != nil {
		t.Fatal(err)
	}
	if alive.Health != 1 {
		t.Errorf("bullet should pass the removed asteroid and hit the enemy, health %d", alive.Health)
	}
	if m.Destroyed(KindAsteroid) != 0 {
		t.Error("removed asteroid must not be counted again")
	}
}

func TestEnemyBulletsIgnoreHazards(t *testing.T) {
	m, _ := hazardField(t)
	a := NewAsteroid(Small, Vec{3, 3}, Vec{}, m.Hooks())
	m.AddAsteroids(a)
	m.AddBullets(NewBullet(OwnerEnemy, Vec{3, 3}, Vec{BulletSpeed, 0}))
	m.FlushAdds()
	if hits, _ := m.ResolveBulletHits(); hits != 0 || a.PendingRemoval() {
		t.Error("enemy bullets only collide with the ship")
	}
}

func TestEnemyBulletHitsShip(t *testing.T) {
	m, ship := hazardField(t)
	b := NewBullet(OwnerEnemy, Vec{0.29, 0}, Vec{-BulletSpeed, 0})
	m.AddBullets(b)
	m.FlushAdds()

	hits, err := m.ResolveShipHits()
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 || !ship.Invincible || !b.PendingRemoval() {
		t.Fatalf("expected ship hit: hits %d invincible %v removed %v", hits, ship.Invincible, b.PendingRemoval())
	}
	if got := len(m.artifacts.pending); got != 15 {
		t.Errorf("expected impact and blowback bursts (15 particles), got %d", got)
	}
	for _, p := range m.artifacts.pending {
		if Distance(p.Pos, b.Pos) > 0.2 {
			t.Errorf("burst particle far from the bullet: %+v", p.Pos)
		}
	}
}

func TestShipHitsSkippedWhileInvincible(t *testing.T) {
	m, ship := hazardField(t)
	ship.Invincible = true
	b := NewBullet(OwnerEnemy, Vec{0.1, 0}, Vec{})
	m.AddBullets(b)
	m.FlushAdds()
	if hits, _ := m.ResolveShipHits(); hits != 0 || b.PendingRemoval() {
		t.Error("invincible ship must not be hit")
	}
	if ship.Hits != 0 {
		t.Errorf("expected no hits, got %d", ship.Hits)
	}
}

func TestAsteroidRamsShip(t *testing.T) {
	m, ship := hazardField(t)
	a := NewAsteroid(Large, Vec{0.4, 0}, Vec{}, m.Hooks())
	m.AddAsteroids(a)
	m.FlushAdds()

	if rams, _ := m.RamAsteroids(); rams != 0 {
		t.Fatal("ramming uses the cached range, which has not been computed yet")
	}
	if err := m.RefreshAsteroids(); err != nil {
		t.Fatal(err)
	}
	if !near(a.Range, 0.4) || !near(math.Abs(a.Bearing), math.Pi) {
		t.Errorf("unexpected proximity %+v", a.Proximity)
	}
	rams, err := m.RamAsteroids()
	if err != nil {
		t.Fatal(err)
	}
	if rams != 1 || !ship.Invincible || !a.PendingRemoval() {
		t.Fatalf("expected ram: %d invincible %v removed %v", rams, ship.Invincible, a.PendingRemoval())
	}
	if len(m.asteroids.pending) != 2 {
		t.Errorf("large asteroid should split on ram, got %d children", len(m.asteroids.pending))
	}
	if m.Destroyed(KindAsteroid) != 1 {
		t.Errorf("expected 1 destroyed asteroid, got %d", m.Destroyed(KindAsteroid))
	}
}

func TestRammingSkippedWhileInvincible(t *testing.T) {
	m, ship := hazardField(t)
	e := NewEnemy(Gunship, Vec{0.1, 0}, m.Hooks())
	m.AddEnemies(e)
	m.FlushAdds()
	ship.Invincible = true
	m.RefreshEnemies()
	if rams, _ := m.RamEnemies(); rams != 0 || e.Health != 2 {
		t.Error("invincible ship must not ram")
	}
	ship.Invincible = false
	if rams, _ := m.RamEnemies(); rams != 1 || e.Health != 1 {
		t.Errorf("expected enemy to take ram damage, health %d", e.Health)
	}
}

func TestBulletDespawnsOutsideView(t *testing.T) {
	m, _ := hazardField(t)
	m.SetVisibleRadius(3)
	inside := NewBullet(OwnerPlayer, Vec{2.9, 0}, Vec{})
	outside := NewBullet(OwnerPlayer, Vec{3.1, 0}, Vec{})
	m.AddBullets(inside, outside)
	m.FlushAdds()
	m.RefreshBullets()
	m.Update(0)
	if inside.PendingRemoval() || !outside.PendingRemoval() {
		t.Error("only the bullet beyond the visible radius should despawn")
	}
}
