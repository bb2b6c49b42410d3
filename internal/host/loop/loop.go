// Package loop provides the host's single event sequence.
//
// Every host callback and every reactive update runs on the goroutine that
// called Run. Other goroutines (file-system watchers, signal handlers, Lua
// timers) hand work to it with Post or Call.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/ksreactive/internal/logging"
)

// Errors returned by the loop.
var (
	// ErrStopped is returned when posting to a stopped loop.
	ErrStopped = errors.New("loop is stopped")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("loop is already running")
)

// DefaultQueueSize is the task buffer used when New is given a non-positive size.
const DefaultQueueSize = 256

// Loop runs posted functions one at a time, in posting order.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	logger   *logging.Logger
}

// New creates a loop with room for queueSize pending tasks.
func New(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		tasks:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: logging.Get().WithComponent("loop"),
	}
}

// Post queues fn. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Call posts fn and waits for it to finish. It must not be called from the
// loop goroutine.
func (l *Loop) Call(fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		// The task may still have run before shutdown.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Run processes tasks until ctx is done or Stop is called. Pending tasks are
// dropped on exit.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// Drain runs every task queued so far on the calling goroutine. It is meant
// for tests and for callers that drive the loop without Run.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			l.exec(fn)
			n++
		default:
			return n
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked: %s", fmt.Sprint(r))
		}
	}()
	fn()
}

// Stop ends Run. It is safe to call Stop multiple times.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}
