package game

import (
	"fmt"
	"math/rand"
)

// Hooks are the narrow capabilities an entity is built with. Entities never
// see the manager; they only push into these sinks.
type Hooks struct {
	AddAsteroids func(asteroids ...*Asteroid)
	AddBullets   func(bullets ...*Bullet)
	AddArtifacts ArtifactSink
	Exploder     Exploder
	Rand         *rand.Rand
}

func missing(who, what string) error {
	return fmt.Errorf("%s: no %s: %w", who, what, ErrMissingCollaborator)
}
