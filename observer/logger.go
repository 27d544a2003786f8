package observer

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggerMu sync.RWMutex
	logger   = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "observer")
)

// Logger returns the entry new Observables derive their logger from.
func Logger() *logrus.Entry {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the package logger. Observables that already logged keep
// the entry they were created with.
func SetLogger(l *logrus.Entry) {
	if l == nil {
		return
	}

	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}
