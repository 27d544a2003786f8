package drawing

import (
	"sync"

	"github.com/golly-go/lsys/observer"
	"github.com/sirupsen/logrus"
)

// MaxIterations bounds how far a figure may be rewritten. Past this the
// produced program grows into gigabytes for common grammars.
const MaxIterations = 12

// Vector is a 2D point or offset.
type Vector struct {
	X, Y float64
}

// Snapshot is a copy of the drawing parameters at one point in time.
type Snapshot struct {
	StartingPosition Vector
	StartingAngle    float64 // radians
	DeltaAngle       float64 // radians
	Step             int
	Iterations       int
}

// Parameters holds how an L-system program is turned into geometry. Every
// setter notifies observers, even when the value is unchanged.
type Parameters struct {
	observer.Observable

	mu sync.RWMutex
	s  Snapshot
}

// NewParameters returns Parameters initialised from s.
func NewParameters(s Snapshot, opts ...observer.Option) *Parameters {
	s.Iterations = clampIterations(s.Iterations)

	p := &Parameters{s: s}
	p.Configure(append([]observer.Option{observer.WithName("drawing")}, opts...)...)
	return p
}

func (p *Parameters) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s
}

func (p *Parameters) SetStartingPosition(v Vector) {
	p.update("starting_position", func(s *Snapshot) { s.StartingPosition = v })
}

func (p *Parameters) SetStartingAngle(rad float64) {
	p.update("starting_angle", func(s *Snapshot) { s.StartingAngle = rad })
}

func (p *Parameters) SetDeltaAngle(rad float64) {
	p.update("delta_angle", func(s *Snapshot) { s.DeltaAngle = rad })
}

func (p *Parameters) SetStep(step int) {
	p.update("step", func(s *Snapshot) { s.Step = step })
}

// SetIterations clamps n to [0, MaxIterations].
func (p *Parameters) SetIterations(n int) {
	p.update("iterations", func(s *Snapshot) { s.Iterations = clampIterations(n) })
}

// Set replaces every parameter with a single notification.
func (p *Parameters) Set(s Snapshot) {
	p.update("all", func(cur *Snapshot) {
		*cur = s
		cur.Iterations = clampIterations(s.Iterations)
	})
}

func (p *Parameters) update(field string, fn func(*Snapshot)) {
	p.mu.Lock()
	fn(&p.s)
	p.mu.Unlock()

	observer.Logger().WithFields(logrus.Fields{
		"model": p.Name(),
		"field": field,
	}).Debug("drawing parameters changed")

	p.Notify()
}

func clampIterations(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxIterations:
		return MaxIterations
	}
	return n
}
