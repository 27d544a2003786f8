package observer

import "errors"

var (
	// ErrInvalidTarget is returned when an Observer is constructed without a
	// publisher to observe.
	ErrInvalidTarget = errors.New("observer: target must not be nil")

	// ErrUnknownSubscription is returned by Unregister for an identifier that
	// is not currently registered.
	ErrUnknownSubscription = errors.New("observer: unknown subscription")

	// ErrNilCallback is the panic value for registering a nil callback.
	ErrNilCallback = errors.New("observer: callback must not be nil")

	// ErrObserverClosed is the panic value for binding a closed Observer.
	ErrObserverClosed = errors.New("observer: observer is closed")
)
