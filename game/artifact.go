package game

import (
	"math"
	"math/rand"
)

// Color is a 0xRRGGBB colour
type Color uint32

// RGB splits the colour into channels
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

const (
	ColourFlame        Color = 0xf5aa42 // impact and blowback sparks
	ColourSmoke        Color = 0x000000 // explosion core and rock debris
	ColourShipExhaust  Color = 0x71bd31
	ColourEnemyExhaust Color = 0xf505ed
)

// ArtifactStyle says what a fading artifact represents
type ArtifactStyle int

const (
	StyleExhaust ArtifactStyle = iota
	StyleSpark
	StyleDebris
)

func (s ArtifactStyle) String() string {
	switch s {
	case StyleExhaust:
		return "exhaust"
	case StyleSpark:
		return "spark"
	case StyleDebris:
		return "debris"
	}
	return "unknown"
}

// FadeStep is the opacity lost per frame for a lifetime of 1
const FadeStep = 0.01

// Artifact is a short-lived, non-colliding visual: exhaust, explosion
// particles and rock debris
type Artifact struct {
	Body
	Style    ArtifactStyle
	Colour   Color
	Size     float64
	Lifetime float64
}

// NewArtifact builds an artifact; lifetime scales how slowly it fades
func NewArtifact(style ArtifactStyle, pos, vel Vec, colour Color, size, opacity, lifetime float64) *Artifact {
	a := &Artifact{
		Body:     newBody(pos, vel),
		Style:    style,
		Colour:   colour,
		Size:     size,
		Lifetime: lifetime,
	}
	a.Opacity = Clamp(opacity, 0, 1)
	return a
}

func (a *Artifact) Kind() Kind { return KindArtifact }

// Fade lowers opacity by FadeStep/Lifetime, never below zero. At zero the
// artifact flags itself for removal.
func (a *Artifact) Fade() {
	if a.Lifetime <= 0 {
		a.Opacity = 0
	} else {
		a.Opacity -= FadeStep / a.Lifetime
		if a.Opacity < 0 {
			a.Opacity = 0
		}
	}
	if a.Opacity == 0 {
		a.MarkForRemoval()
	}
}

// Update fades the artifact once per frame
func (a *Artifact) Update(frame uint64) error {
	a.Fade()
	return nil
}

// exhaustPlume returns one exhaust particle trailing a craft at pos facing
// rotation, starting offset behind its centre. A lifetime <= 0 picks the
// default.
func exhaustPlume(rng *rand.Rand, pos Vec, rotation, offset float64, colour Color, size, lifetime float64) *Artifact {
	dir := Heading(rotation + math.Pi + rng.Float64()*0.3 - 0.15)
	speed := 1 / (rng.Float64()*30 + 25)
	start := Vec{
		X: pos.X + rng.Float64()*0.08 - 0.04 + dir.X*offset,
		Y: pos.Y + rng.Float64()*0.08 - 0.04 + dir.Y*offset,
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime(rng)
	}
	return NewArtifact(StyleExhaust, start, dir.Scale(speed), colour, size, rng.Float64()*0.5+0.5, lifetime)
}
