package main

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"asteroid-field/game"
)

type intent int

const (
	intentThrust intent = iota
	intentBrake
	intentLeft
	intentRight
	intentFire
	intentCount
)

// latch turns terminal key presses into held keys. Terminals only report
// presses and auto-repeats, so a key counts as held until hold has passed
// since its last report.
type latch struct {
	mu   sync.Mutex
	hold time.Duration
	now  func() time.Time
	seen [intentCount]time.Time
}

func newLatch(hold time.Duration) *latch {
	return &latch{hold: hold, now: time.Now}
}

func (l *latch) press(i intent) {
	l.mu.Lock()
	l.seen[i] = l.now()
	l.mu.Unlock()
}

func (l *latch) held(i intent, now time.Time) bool {
	t := l.seen[i]
	return !t.IsZero() && now.Sub(t) < l.hold
}

// Keys is the engine's key source
func (l *latch) Keys() game.KeyState {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	return game.KeyState{
		Thrust: l.held(intentThrust, now),
		Brake:  l.held(intentBrake, now),
		Left:   l.held(intentLeft, now),
		Right:  l.held(intentRight, now),
		Fire:   l.held(intentFire, now),
	}
}

// intentOf maps a key event to an intent. quit is true for the keys that
// leave the game.
func intentOf(ev *tcell.EventKey) (i intent, ok, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, false, true
	case tcell.KeyUp:
		return intentThrust, true, false
	case tcell.KeyDown:
		return intentBrake, true, false
	case tcell.KeyLeft:
		return intentLeft, true, false
	case tcell.KeyRight:
		return intentRight, true, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return 0, false, true
		case 'w', 'W':
			return intentThrust, true, false
		case 's', 'S':
			return intentBrake, true, false
		case 'a', 'A':
			return intentLeft, true, false
		case 'd', 'D':
			return intentRight, true, false
		case ' ':
			return intentFire, true, false
		}
	}
	return 0, false, false
}
