package render

import "asteroid-field/game"

// Sprite is the drawable state of one entity
type Sprite struct {
	ID       uint64     `msgpack:"id"`
	Kind     game.Kind  `msgpack:"k"`
	X        float64    `msgpack:"x"`
	Y        float64    `msgpack:"y"`
	Rotation float64    `msgpack:"r"`
	Radius   float64    `msgpack:"rad"`
	Opacity  float64    `msgpack:"o"`
	Colour   game.Color `msgpack:"c"`
	Variant  string     `msgpack:"v,omitempty"`
	Sides    int        `msgpack:"s,omitempty"` // asteroid outline
}

// Frame is everything needed to draw one frame
type Frame struct {
	Index   uint64
	Camera  game.Vec
	Width   float64
	Height  float64
	Sprites []Sprite
}

const (
	colourShip     game.Color = 0x71bd31
	colourAsteroid game.Color = 0xeaeaea
	colourRammer   game.Color = 0x858383
	colourGunship  game.Color = 0x656363
	colourBullet   game.Color = 0x000000
)

// SpriteOf converts an entity into its sprite
func SpriteOf(e game.Entity) Sprite {
	b := e.Base()
	s := Sprite{
		ID:       b.ID,
		Kind:     e.Kind(),
		X:        b.Pos.X,
		Y:        b.Pos.Y,
		Rotation: b.Rotation,
		Opacity:  b.Opacity,
	}
	switch v := e.(type) {
	case *game.Ship:
		s.Radius = v.Radius
		s.Colour = colourShip
		if v.Invincible {
			s.Variant = "invincible"
		}
	case *game.Asteroid:
		s.Radius = v.Radius
		s.Colour = colourAsteroid
		s.Variant = v.Size.String()
		s.Sides = v.Sides
	case *game.Enemy:
		s.Radius = v.Radius
		s.Colour = colourRammer
		if v.Archetype == game.Gunship {
			s.Colour = colourGunship
		}
		s.Variant = v.Archetype.String()
	case *game.Bullet:
		s.Radius = v.Radius
		s.Colour = colourBullet
	case *game.Artifact:
		s.Radius = v.Size
		s.Colour = v.Colour
		s.Variant = v.Style.String()
	}
	return s
}
