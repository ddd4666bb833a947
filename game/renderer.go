package game

// Renderer is the rendering collaborator the simulation drives. Only the
// manager's flush steps call AddVisuals and RemoveVisuals.
type Renderer interface {
	AddVisuals(entities []Entity)
	RemoveVisuals(entities []Entity)
	DistanceBetween(a, b Vec) float64
	// BearingBetween returns atan2(dy, dx) of the a->b vector
	BearingBetween(a, b Vec) float64
	// VisibleRadius is the half diagonal of the viewport in world units
	VisibleRadius() float64
	// SetCamera re-centres the view on the ship each frame
	SetCamera(pos Vec)
	// OnFrame registers fn to be called once per rendered frame with a
	// monotonically increasing index; nil deregisters.
	OnFrame(fn func(frame uint64))
}
