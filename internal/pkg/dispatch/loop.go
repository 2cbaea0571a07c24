package dispatch

import (
	"github.com/rs/zerolog/log"
)

// Loop runs queued state updates one at a time on a single goroutine,
// in arrival order. It is the only place application state is
// mutated, which stands in for locking: no state is ever touched from
// two flows at once.
type Loop struct {
	updates chan func()
	quit    chan struct{}
	stopped chan struct{}
}

// NewLoop creates a loop with the given queue depth.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		updates: make(chan func(), buffer),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run consumes the queue until Stop is called. Start it with
// `go loop.Run()` before dispatching.
func (l *Loop) Run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.updates:
			fn()
		case <-l.quit:
			// Drain whatever was already queued.
			for {
				select {
				case fn := <-l.updates:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Dispatch queues an update and returns without waiting for it.
func (l *Loop) Dispatch(fn func()) {
	select {
	case l.updates <- fn:
	case <-l.quit:
		log.Warn().Msg("update dropped: dispatch loop stopped")
	}
}

// Call queues an update and blocks until it has run. Used by request
// handlers to read a consistent snapshot of the state. Must not be
// called from inside the loop itself.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.Dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-l.stopped:
	}
}

// Stop shuts the loop down after draining queued updates.
func (l *Loop) Stop() {
	close(l.quit)
	<-l.stopped
}
