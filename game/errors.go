package game

import "errors"

var (
	// ErrNoShip is returned by any operation that needs the player ship
	// before Init has created it.
	ErrNoShip = errors.New("game: spaceship not initialised")

	// ErrMissingCollaborator means an entity was built without a capability
	// it needs (spawner, explosion generator, bullet sink).
	ErrMissingCollaborator = errors.New("game: missing collaborator")

	// ErrCorrupted is returned for every frame after a frame failed.
	ErrCorrupted = errors.New("game: simulation corrupted by earlier frame error")

	// ErrUnknownEntity is returned by Manager.Enqueue for types it has no pool for.
	ErrUnknownEntity = errors.New("game: unknown entity type")
)
