package game

// CheckCollision reports whether point p lies strictly inside the circle at
// c with radius r. A point exactly on the boundary is a miss.
func CheckCollision(p, c Vec, r float64) bool {
	return Distance(p, c) < r
}

func (m *Manager) distance(a, b Vec) float64 {
	return m.renderer.DistanceBetween(a, b)
}

// indexHazards loads every live, not-yet-removed hazard into the grid.
// Asteroids come first, then enemies, each in pool order.
func (m *Manager) indexHazards() {
	m.grid.Clear()
	m.targets = m.targets[:0]
	for _, a := range m.asteroids.live {
		if a.PendingRemoval() {
			continue
		}
		m.grid.InsertCircle(a.Pos, a.Radius, len(m.targets))
		m.targets = append(m.targets, a)
	}
	for _, e := range m.enemies.live {
		if e.PendingRemoval() {
			continue
		}
		m.grid.InsertCircle(e.Pos, e.Radius, len(m.targets))
		m.targets = append(m.targets, e)
	}
}

// ResolveBulletHits tests each live player bullet against the hazards. A
// bullet stops at its first hit; the bullet is always removed and the hazard
// takes its damage. Returns the number of hits.
func (m *Manager) ResolveBulletHits() (int, error) {
	if len(m.playerBullets.live) == 0 {
		return 0, nil
	}
	m.indexHazards()
	if len(m.targets) == 0 {
		return 0, nil
	}
	hits := 0
	for _, b := range m.playerBullets.live {
		if b.PendingRemoval() {
			continue
		}
		m.buf = m.grid.QueryBuf(b.Pos, 0, m.buf[:0])
		for _, i := range m.buf {
			t := m.targets[i]
			body := t.Base()
			if body.PendingRemoval() {
				continue
			}
			if m.distance(b.Pos, body.Pos) < t.HitRadius() {
				b.MarkForRemoval()
				if err := t.Hit(&b.Body, b.Damage); err != nil {
					return hits, err
				}
				m.tally(t)
				hits++
				break
			}
		}
	}
	return hits, nil
}

// tally counts e as destroyed if the hit flagged it
func (m *Manager) tally(e Entity) {
	if e.Base().PendingRemoval() {
		m.destroyed[e.Kind()]++
	}
}

// refresh recomputes the cached bearing and range to the ship of each item
func refresh[T proximate](m *Manager, items []T, ship Vec) {
	for _, it := range items {
		p := it.Base().Pos
		it.SetProximity(m.renderer.BearingBetween(p, ship), m.distance(p, ship))
	}
}

// RefreshBullets updates every live bullet's range to the ship
func (m *Manager) RefreshBullets() error {
	ship, err := m.Ship()
	if err != nil {
		return err
	}
	refresh(m, m.playerBullets.live, ship.Pos)
	refresh(m, m.enemyBullets.live, ship.Pos)
	return nil
}

// RefreshAsteroids updates cached proximity for every live asteroid
func (m *Manager) RefreshAsteroids() error {
	ship, err := m.Ship()
	if err != nil {
		return err
	}
	refresh(m, m.asteroids.live, ship.Pos)
	return nil
}

// RefreshEnemies updates cached proximity for every live enemy
func (m *Manager) RefreshEnemies() error {
	ship, err := m.Ship()
	if err != nil {
		return err
	}
	refresh(m, m.enemies.live, ship.Pos)
	return nil
}

// ramHazards checks hazards whose cached range is inside their hit radius.
// The first ram makes the ship invincible, which skips the rest.
func ramHazards[T interface {
	Collidable
	proximate
}](m *Manager, ship *Ship, items []T) (int, error) {
	rams := 0
	for _, h := range items {
		if ship.Invincible {
			break
		}
		body := h.Base()
		if body.PendingRemoval() {
			continue
		}
		if px := h.Snapshot(); px.Known && px.Range < h.HitRadius() {
			if err := h.Hit(&ship.Body, ship.Damage); err != nil {
				return rams, err
			}
			m.tally(h)
			ship.Collide()
			rams++
		}
	}
	return rams, nil
}

// RamAsteroids resolves asteroid-vs-ship contact
func (m *Manager) RamAsteroids() (int, error) {
	ship, err := m.Ship()
	if err != nil {
		return 0, err
	}
	return ramHazards(m, ship, m.asteroids.live)
}

// RamEnemies resolves enemy-vs-ship contact
func (m *Manager) RamEnemies() (int, error) {
	ship, err := m.Ship()
	if err != nil {
		return 0, err
	}
	return ramHazards(m, ship, m.enemies.live)
}

// ResolveShipHits tests enemy bullets against the ship. It is skipped while
// the ship is invincible. A hit makes the ship invincible, removes the
// bullet and emits a burst at the bullet.
func (m *Manager) ResolveShipHits() (int, error) {
	ship, err := m.Ship()
	if err != nil {
		return 0, err
	}
	hits := 0
	for _, b := range m.enemyBullets.live {
		if ship.Invincible {
			break
		}
		if b.PendingRemoval() {
			continue
		}
		if m.distance(b.Pos, ship.Pos) < ship.Radius {
			b.MarkForRemoval()
			ship.Collide()
			impact, blowback, explosion := hitBursts(m.rng, &ship.Body, &b.Body)
			explosion.Particles = AmountOf(0)
			if _, err := m.explosions.Explode(impact, blowback, explosion); err != nil {
				return hits, err
			}
			hits++
		}
	}
	return hits, nil
}
