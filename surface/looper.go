// Package surface provides owning-context primitives: a serial run loop and
// a reference display surface bound to it.
package surface

import (
	"sync"
	"sync/atomic"
)

// Looper is a single-goroutine run loop, the owning context for one or more
// surfaces.  Closures handed to Post execute strictly in FIFO order on the
// loop goroutine, which is the only safe place to mutate a surface bound to
// this looper.
type Looper struct {
	funcs    chan func()
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	dispatching int32
}

// NewLooper starts a run loop with the given queue capacity (<= 0 picks a
// default) and returns it.  Call Stop when the owning context goes away.
func NewLooper(capacity int) *Looper {
	if capacity <= 0 {
		capacity = 64
	}
	l := &Looper{
		funcs: make(chan func(), capacity),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.loop()
	return l
}

func (l *Looper) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			// Drain what was posted before the stop.
			for {
				select {
				case fn := <-l.funcs:
					l.dispatch(fn)
				default:
					return
				}
			}
		case fn := <-l.funcs:
			l.dispatch(fn)
		}
	}
}

func (l *Looper) dispatch(fn func()) {
	atomic.StoreInt32(&l.dispatching, 1)
	fn()
	atomic.StoreInt32(&l.dispatching, 0)
}

// Post queues fn for execution on the loop goroutine.  It blocks while the
// queue is full and drops fn once the looper is stopped.
func (l *Looper) Post(fn func()) {
	select {
	case <-l.stop:
	case l.funcs <- fn:
	}
}

// Sync posts a barrier and waits until the loop has executed everything
// queued before it.  Returns immediately on a stopped looper.
func (l *Looper) Sync() {
	barrier := make(chan struct{})
	l.Post(func() { close(barrier) })
	select {
	case <-barrier:
	case <-l.done:
	}
}

// Dispatching reports whether the loop goroutine is currently executing a
// posted closure.  Surfaces use it to detect writes arriving from the wrong
// context.
func (l *Looper) Dispatching() bool {
	return atomic.LoadInt32(&l.dispatching) == 1
}

// Stop shuts the loop down after draining already-posted closures and waits
// for the goroutine to exit.
func (l *Looper) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}
