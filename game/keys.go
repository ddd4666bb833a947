package game

// KeyState is the per-frame snapshot of player intents
type KeyState struct {
	Thrust bool
	Brake  bool
	Left   bool
	Right  bool
	Fire   bool
}

// KeySource provides the current intents; it is read once per frame
type KeySource interface {
	Keys() KeyState
}

// KeySourceFunc adapts a function to KeySource
type KeySourceFunc func() KeyState

func (f KeySourceFunc) Keys() KeyState { return f() }

// Input flag bits used by compact wire encodings of KeyState
const (
	FlagThrust byte = 1 << iota
	FlagBrake
	FlagLeft
	FlagRight
	FlagFire
)

// Flags packs the key state into a byte
func (k KeyState) Flags() byte {
	var f byte
	if k.Thrust {
		f |= FlagThrust
	}
	if k.Brake {
		f |= FlagBrake
	}
	if k.Left {
		f |= FlagLeft
	}
	if k.Right {
		f |= FlagRight
	}
	if k.Fire {
		f |= FlagFire
	}
	return f
}

// KeyStateFromFlags unpacks a byte produced by Flags
func KeyStateFromFlags(f byte) KeyState {
	return KeyState{
		Thrust: f&FlagThrust != 0,
		Brake:  f&FlagBrake != 0,
		Left:   f&FlagLeft != 0,
		Right:  f&FlagRight != 0,
		Fire:   f&FlagFire != 0,
	}
}
