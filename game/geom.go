package game

import "math"

// Vec is a planar world position or velocity
type Vec struct {
	X, Y float64
}

// Add returns v + o
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Scale returns v * k
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the vector length
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the planar distance between two points
func Distance(a, b Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Bearing returns the angle of the a->b vector, atan2(dy, dx)
func Bearing(a, b Vec) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// ShortestAngle returns the signed turn from heading `from` to heading `to`
func ShortestAngle(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// Heading returns the unit vector for a rotation (cos, sin)
func Heading(rotation float64) Vec {
	return Vec{math.Cos(rotation), math.Sin(rotation)}
}

// Compass returns the particle-space angle of v, measured from +Y toward +X.
// Particle bursts and fission launch directions use (sin a, cos a).
func Compass(v Vec) float64 {
	return math.Atan2(v.X, v.Y)
}

// FromCompass is the inverse of Compass for a unit vector
func FromCompass(a float64) Vec {
	return Vec{math.Sin(a), math.Cos(a)}
}

// CompassBetween returns the compass angle of the a->b vector
func CompassBetween(a, b Vec) float64 {
	return math.Atan2(b.X-a.X, b.Y-a.Y)
}
