package observer

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// Group owns several Observers, typically one per publisher a component
// reacts to, and closes them together.
type Group struct {
	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

// Add hands c to the group. Adding to a closed group closes c right away.
func (g *Group) Add(c io.Closer) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return c.Close()
	}
	g.closers = append(g.closers, c)
	g.mu.Unlock()
	return nil
}

// Len returns the number of members not yet closed.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.closers)
}

// Close closes every member in reverse order of Add and returns all their
// errors combined. Close is idempotent.
func (g *Group) Close() error {
	g.mu.Lock()
	closers := g.closers
	g.closers = nil
	g.closed = true
	g.mu.Unlock()

	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i].Close())
	}
	return err
}

// Watch creates an Observer of target bound to cb and adds it to g.
func Watch[T Publisher](g *Group, target T, cb Callback) (*Observer[T], error) {
	h, err := New(target)
	if err != nil {
		return nil, err
	}

	h.Bind(cb)

	if err := g.Add(h); err != nil {
		return nil, err
	}

	if h.State() == Closed {
		return nil, ErrObserverClosed
	}
	return h, nil
}
