package observer

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of an Observer.
type State int

const (
	Unbound State = iota
	Bound
	Closed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Observer ties at most one subscription on a single publisher to the
// lifetime of its owner. Bind subscribes or replaces the subscription; Close
// removes it, after which the bound callback can never fire again.
//
// Owners that embed an Observer must Close it on every exit path, usually with
// defer or from their own Close.
type Observer[T Publisher] struct {
	mu     sync.Mutex
	target T
	id     ID
	state  State
}

// New returns an unbound Observer of target. A nil target (including a typed
// nil pointer) yields ErrInvalidTarget and no Observer.
func New[T Publisher](target T) (*Observer[T], error) {
	if isNil(target) {
		return nil, ErrInvalidTarget
	}
	return &Observer[T]{target: target}, nil
}

// MustNew is like New but panics on an invalid target.
func MustNew[T Publisher](target T) *Observer[T] {
	h, err := New(target)
	if err != nil {
		panic(err)
	}
	return h
}

// Target returns the observed publisher. After Close it returns the zero T.
func (h *Observer[T]) Target() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.target
}

// Bind registers cb with the target, replacing the current subscription if
// there is one. The old callback is unregistered before cb is registered and
// never fires again.
//
// Binding a closed Observer, binding nil, or finding the held subscription
// missing from the target are programming errors and panic.
func (h *Observer[T]) Bind(cb Callback) {
	if cb == nil {
		panic(ErrNilCallback)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case Closed:
		panic(ErrObserverClosed)
	case Bound:
		if err := h.target.Unregister(h.id); err != nil {
			panic(fmt.Errorf("observer: replace subscription %d: %w", h.id, err))
		}
	}

	old := h.id
	h.id = h.target.Register(cb)
	h.state = Bound

	Logger().WithFields(logrus.Fields{
		"subscription": h.id,
		"replaced":     old,
	}).Trace("bound observer")
}

// Bound reports whether the Observer holds a subscription.
func (h *Observer[T]) Bound() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == Bound
}

// ID returns the held subscription, if any.
func (h *Observer[T]) ID() (ID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id, h.state == Bound
}

// State returns the lifecycle state.
func (h *Observer[T]) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Close unregisters the held subscription, if any, and releases the target.
// An unbound Observer closes without touching the target. Close is
// idempotent.
func (h *Observer[T]) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == Closed {
		return nil
	}

	var err error
	if h.state == Bound {
		if uerr := h.target.Unregister(h.id); uerr != nil {
			err = fmt.Errorf("observer: close subscription %d: %w", h.id, uerr)
		}
	}

	var zero T
	h.target = zero
	h.id = 0
	h.state = Closed

	return err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
