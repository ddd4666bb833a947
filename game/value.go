package game

import "math/rand"

// Value is a tuning parameter that is either a fixed number or a generator
// resolved each time it is read. The zero Value is unset.
type Value struct {
	fixed float64
	gen   func() float64
	set   bool
}

// Fixed returns a constant Value
func Fixed(v float64) Value {
	return Value{fixed: v, set: true}
}

// Gen returns a Value backed by a generator
func Gen(fn func() float64) Value {
	return Value{gen: fn, set: true}
}

// Uniform returns a generator Value drawing from [min, max) on rng
func Uniform(rng *rand.Rand, min, max float64) Value {
	return Gen(func() float64 {
		return min + rng.Float64()*(max-min)
	})
}

// IsSet reports whether the value was provided
func (v Value) IsSet() bool { return v.set }

// Or returns v when set, otherwise def
func (v Value) Or(def Value) Value {
	if v.set {
		return v
	}
	return def
}

// Resolve returns the number, calling the generator if there is one
func (v Value) Resolve() float64 {
	if v.gen != nil {
		return v.gen()
	}
	return v.fixed
}
