package replication

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned by Do once Run has returned.
var ErrLoopStopped = errors.New("replication loop stopped")

type action struct {
	fn   func(ctx context.Context) error
	done chan error
}

// Loop is the single goroutine that touches the session. Inbound envelopes
// and local actions are taken one at a time, each running to completion
// before the next starts.
type Loop struct {
	d       *Dispatcher
	actions chan action
	stopped chan struct{}
}

// NewLoop returns a loop for d. Call Run to start it.
func NewLoop(d *Dispatcher) *Loop {
	return &Loop{
		d:       d,
		actions: make(chan action),
		stopped: make(chan struct{}),
	}
}

// Run processes inbound envelopes and actions until ctx is done or the relay
// closes its inbound channel. Errors from individual envelopes are logged by
// the dispatcher and do not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	inbound := l.d.relay.Inbound()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-inbound:
			if !ok {
				return nil
			}
			_ = l.d.Handle(ctx, env)
		case a := <-l.actions:
			a.done <- a.fn(ctx)
		}
	}
}

// Do runs fn on the loop goroutine and returns its error.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	a := action{fn: fn, done: make(chan error, 1)}
	select {
	case l.actions <- a:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-a.done
}
