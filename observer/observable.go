package observer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ID names one registered callback. IDs are issued from 1 upward and are never
// reused by the Observable that issued them.
type ID uint64

// Callback is a change notification. Anything the reaction needs is read from
// the publisher when the callback runs.
type Callback func()

// Publisher is the capability an Observer needs from its target.
type Publisher interface {
	Register(Callback) ID
	Unregister(ID) error
}

type entry struct {
	id ID
	cb Callback
}

// Observable keeps an ordered registry of callbacks and fires them on Notify.
// The zero value is ready to use, so models can embed it directly.
type Observable struct {
	mu      sync.RWMutex
	entries []entry
	next    ID

	once    sync.Once
	name    string
	logger  *logrus.Entry
	onPanic PanicHandler
}

var _ Publisher = (*Observable)(nil)

// NewObservable returns an empty Observable.
func NewObservable(opts ...Option) *Observable {
	o := &Observable{}
	o.Configure(opts...)
	return o
}

// Configure applies options to an embedded Observable. It must run before the
// Observable is first used.
func (o *Observable) Configure(opts ...Option) {
	o.mu.Lock()
	for _, opt := range opts {
		opt(o)
	}
	o.mu.Unlock()

	o.once.Do(o.setup)
}

func (o *Observable) setup() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.name == "" {
		o.name = uuid.NewString()
	}

	if o.logger == nil {
		o.logger = Logger()
	}
	o.logger = o.logger.WithField("observable", o.name)
}

// Name returns the name used in log fields.
func (o *Observable) Name() string {
	o.once.Do(o.setup)
	return o.name
}

// Register appends cb to the registry and returns its identifier. Callbacks
// fire in registration order.
func (o *Observable) Register(cb Callback) ID {
	if cb == nil {
		panic(ErrNilCallback)
	}
	o.once.Do(o.setup)

	o.mu.Lock()
	o.next++
	id := o.next
	o.entries = append(o.entries, entry{id: id, cb: cb})
	size := len(o.entries)
	o.mu.Unlock()

	o.logger.WithFields(logrus.Fields{
		"subscription": id,
		"subscribers":  size,
	}).Trace("registered callback")

	return id
}

// Unregister removes the callback registered under id. Removing an id that is
// not registered is a caller bug and returns ErrUnknownSubscription.
func (o *Observable) Unregister(id ID) error {
	o.once.Do(o.setup)

	o.mu.Lock()
	pos := o.indexOf(id)
	if pos >= 0 {
		o.entries = append(o.entries[:pos], o.entries[pos+1:]...)
	}
	size := len(o.entries)
	o.mu.Unlock()

	log := o.logger.WithFields(logrus.Fields{
		"subscription": id,
		"subscribers":  size,
	})

	if pos < 0 {
		log.Warn("unregister of unknown subscription")
		return fmt.Errorf("%w: %d", ErrUnknownSubscription, id)
	}

	log.Trace("unregistered callback")
	return nil
}

// Notify invokes every registered callback in registration order on the
// calling goroutine.
//
// The registry is copied before the pass and no lock is held while callbacks
// run, so a callback may Register, Unregister, Bind or Close freely. Changes
// made during a pass apply from the next pass on: a callback removed mid-pass
// can still fire in that pass, one added mid-pass cannot.
func (o *Observable) Notify() {
	o.once.Do(o.setup)

	o.mu.RLock()
	list := append([]entry(nil), o.entries...)
	o.mu.RUnlock()

	o.logger.WithField("subscribers", len(list)).Trace("notify")

	for i := range list {
		o.invoke(list[i])
	}
}

func (o *Observable) invoke(e entry) {
	if o.onPanic != nil {
		defer func() {
			if r := recover(); r != nil {
				o.logger.WithField("subscription", e.id).Errorf("callback panicked: %v", r)
				o.onPanic(e.id, r)
			}
		}()
	}

	e.cb()
}

// Len returns the number of registered callbacks.
func (o *Observable) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

// Has reports whether id is currently registered.
func (o *Observable) Has(id ID) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.indexOf(id) >= 0
}

// IDs returns the registered identifiers in delivery order.
func (o *Observable) IDs() []ID {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := make([]ID, len(o.entries))
	for i := range o.entries {
		ids[i] = o.entries[i].id
	}
	return ids
}

// indexOf expects o.mu to be held.
func (o *Observable) indexOf(id ID) int {
	for i := range o.entries {
		if o.entries[i].id == id {
			return i
		}
	}
	return -1
}
