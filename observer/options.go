package observer

import "github.com/sirupsen/logrus"

// Option configures an Observable.
type Option func(*Observable)

// PanicHandler receives the recovered value of a callback that panicked
// during Notify.
type PanicHandler func(id ID, recovered any)

// WithName sets the name used in log fields. Defaults to a random uuid.
func WithName(name string) Option {
	return func(o *Observable) { o.name = name }
}

// WithLogger sets the logger entry. Defaults to Logger().
func WithLogger(l *logrus.Entry) Option {
	return func(o *Observable) { o.logger = l }
}

// WithPanicHandler recovers panicking callbacks so the rest of the pass still
// runs. Without it a panic propagates out of Notify.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *Observable) { o.onPanic = h }
}
