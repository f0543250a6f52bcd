package listsync

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopped is returned when operating on a view-model whose loop exited.
var ErrStopped = errors.New("list loop stopped")

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("list loop already running")

// actor serializes every state mutation of a view-model on one goroutine.
// Operations are queued with post and executed in order by run; events
// leave through a single channel that is closed when run returns.
type actor struct {
	ops     chan func()
	events  chan Event
	done    chan struct{}
	running atomic.Bool
	ctx     context.Context
}

func (a *actor) init(buffer int) {
	a.ops = make(chan func(), buffer)
	a.events = make(chan Event, buffer)
	a.done = make(chan struct{})
	a.ctx = context.Background()
}

func (a *actor) run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	a.ctx = ctx
	defer close(a.events)
	defer close(a.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-a.ops:
			op()
		}
	}
}

// post queues fn on the loop. It returns false once the loop has stopped.
func (a *actor) post(fn func()) bool {
	select {
	case <-a.done:
		return false
	default:
	}
	select {
	case a.ops <- fn:
		return true
	case <-a.done:
		return false
	}
}

// emit sends events in order. Only called from the loop.
func (a *actor) emit(events ...Event) {
	for _, e := range events {
		select {
		case a.events <- e:
		case <-a.ctx.Done():
			return
		}
	}
}

// Events returns the channel of presentation signals.
func (a *actor) Events() <-chan Event {
	return a.events
}

// Flush waits until every operation queued before the call has run.
func (a *actor) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	if !a.post(func() { close(ack) }) {
		return ErrStopped
	}
	select {
	case <-ack:
		return nil
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the loop has exited.
func (a *actor) Done() <-chan struct{} {
	return a.done
}
