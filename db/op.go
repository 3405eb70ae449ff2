package db

import (
	"context"
	"sync"
	"sync/atomic"
)

// Op is a pending statement: a result to wait on plus a cancel capability.
//
// Cancel is idempotent and safe after completion. An operation canceled
// before it settles always settles as ErrCanceled; a result or error
// arriving after cancellation is discarded. An operation that already
// settled keeps its outcome, and later Cancel calls are no-ops.
type Op[T any] struct {
	done     chan struct{}
	val      T
	err      error
	cancel   context.CancelFunc
	canceled atomic.Bool
	settle1  sync.Once
}

func newOp[T any](parent context.Context) (*Op[T], context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Op[T]{done: make(chan struct{}), cancel: cancel}, ctx
}

// Wait blocks until the operation settles and returns its outcome.
func (o *Op[T]) Wait() (T, error) {
	<-o.done
	return o.val, o.err
}

// Done is closed once the operation has settled.
func (o *Op[T]) Done() <-chan struct{} { return o.done }

// Cancel requests termination. For an in-flight statement this cancels the
// statement context, which the driver turns into a best-effort backend-side
// cancellation; the operation still settles only after its connection has
// been returned to the pool.
func (o *Op[T]) Cancel() {
	// Flag first: the runner observing the canceled context must see it.
	o.canceled.Store(true)
	o.cancel()
}

// settle records the outcome, exactly once. A cancel that happened before
// settlement wins over whatever the runner produced.
func (o *Op[T]) settle(val T, err error) {
	o.settle1.Do(func() {
		if o.canceled.Load() {
			var zero T
			o.val, o.err = zero, ErrCanceled
		} else {
			o.val, o.err = val, err
		}
		o.cancel()
		close(o.done)
	})
}

// mapOp derives a reshaped operation, forwarding the cancel capability and
// the settlement outcome of the source unchanged.
func mapOp[T, U any](o *Op[T], f func(T) U) *Op[U] {
	m := &Op[U]{done: make(chan struct{}), cancel: o.Cancel}
	go func() {
		v, err := o.Wait()
		if err != nil {
			var zero U
			m.settle(zero, err)
			return
		}
		m.settle(f(v), nil)
	}()
	return m
}
