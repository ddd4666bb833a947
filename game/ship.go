package game

import "time"

const (
	ShipAccel         = 0.001
	ShipDrag          = 0.99 // applied only while thrusting
	ShipBrakeDrag     = 0.95
	ShipRotAccel      = 0.004
	ShipMaxSpin       = 0.04
	ShipRotDrag       = 0.95
	ShipHitRadius     = 0.3
	ShipRamDamage     = 1
	ShipExhaustEvery  = 2 // frames between exhaust particles while thrusting
	ShipExhaustSize   = 0.03
	ShipExhaustOffset = 1.0 / 8

	InvincibleFor  = 2 * time.Second
	BlinkEvery     = 5 // frames between opacity toggles while invincible
	BlinkOpacity   = 0.25
	visibleOpacity = 1.0
)

// Ship is the player's craft. There is exactly one per manager.
type Ship struct {
	Body
	Radius     float64
	Damage     int // applied to anything the ship rams
	Invincible bool
	Hits       int
	Shots      int

	bulletAvailable bool
	timer           Timer
	clock           Clock
	timers          *timerQueue
	hooks           Hooks
}

func newShip(hooks Hooks, clock Clock, timers *timerQueue) *Ship {
	return &Ship{
		Body:            newBody(Vec{}, Vec{}),
		Radius:          ShipHitRadius,
		Damage:          ShipRamDamage,
		bulletAvailable: true,
		clock:           clock,
		timers:          timers,
		hooks:           hooks,
	}
}

func (s *Ship) Kind() Kind { return KindShip }

// Steer applies one frame of player intents
func (s *Ship) Steer(frame uint64, keys KeyState) error {
	if keys.Thrust {
		s.Vel = s.Vel.Add(Heading(s.Rotation).Scale(ShipAccel)).Scale(ShipDrag)
		if frame%ShipExhaustEvery == 0 {
			if s.hooks.AddArtifacts == nil || s.hooks.Rand == nil {
				return missing("ship", "artifact sink")
			}
			s.hooks.AddArtifacts(exhaustPlume(s.hooks.Rand, s.Pos, s.Rotation, ShipExhaustOffset, ColourShipExhaust, ShipExhaustSize, 0))
		}
	}
	if keys.Brake {
		s.Vel = s.Vel.Scale(ShipDrag * ShipBrakeDrag)
	}
	if keys.Left {
		s.Spin += ShipRotAccel
	}
	if keys.Right {
		s.Spin -= ShipRotAccel
	}
	if !keys.Left && !keys.Right {
		s.Spin *= ShipRotDrag
	}
	s.Spin = Clamp(s.Spin, -ShipMaxSpin, ShipMaxSpin)

	if !keys.Fire {
		s.bulletAvailable = true
	} else if s.bulletAvailable {
		if s.hooks.AddBullets == nil {
			return missing("ship", "bullet sink")
		}
		s.bulletAvailable = false
		b := FireBullet(OwnerPlayer, s.Pos, s.Rotation)
		b.SetVisibleRadius(s.VisibleRadius())
		s.hooks.AddBullets(b)
		s.Shots++
	}

	if s.Invincible && frame%BlinkEvery == 0 {
		if s.Opacity == visibleOpacity {
			s.Opacity = BlinkOpacity
		} else {
			s.Opacity = visibleOpacity
		}
	}
	return nil
}

// Collide registers a hit on the ship. It is a no-op while invincible and
// reports whether the hit counted.
func (s *Ship) Collide() bool {
	if s.Invincible {
		return false
	}
	s.Hits++
	s.Invincible = true
	clock := s.clock
	if clock == nil {
		clock = WallClock
	}
	s.timer = clock.AfterFunc(InvincibleFor, func() {
		if s.timers != nil {
			s.timers.push(s.endInvincibility)
		}
	})
	return true
}

func (s *Ship) endInvincibility() {
	s.Invincible = false
	s.Opacity = visibleOpacity
	s.timer = nil
}

func (s *Ship) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
