package game

import (
	"sync"
	"time"
)

// Timer is a pending clock callback
type Timer interface {
	Stop() bool
}

// Clock schedules real-time callbacks. The callback runs on an arbitrary
// goroutine; the engine only queues work from it.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// WallClock is the Clock backed by the time package
var WallClock Clock = wallClock{}

// timerQueue collects callbacks fired between frames and runs them on the
// frame goroutine when drained.
type timerQueue struct {
	mu      sync.Mutex
	pending []func()
}

func (q *timerQueue) push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// drain runs queued callbacks in firing order and returns how many ran
func (q *timerQueue) drain() int {
	q.mu.Lock()
	fns := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
