package utils

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// FatalError is the panic value raised by Fatalf. A fatal error means the
// grid state can no longer be trusted (bad index, shape mismatch, misuse of
// an arena block), so callers are not expected to recover from it outside
// of tests.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

var (
	fatalMu  sync.RWMutex
	fatalLog logrus.FieldLogger = logrus.StandardLogger()
)

// SetFatalLogger routes Fatalf messages to l. nil restores the standard
// logrus logger.
func SetFatalLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	fatalMu.Lock()
	fatalLog = l
	fatalMu.Unlock()
}

// Fatalf reports a precondition failure and terminates the run by
// panicking with a *FatalError.
func Fatalf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fatalMu.RLock()
	l := fatalLog
	fatalMu.RUnlock()
	l.WithField("fatal", true).Error(msg)
	panic(&FatalError{Msg: msg})
}

// IsFatal reports whether a recovered panic value came from Fatalf.
func IsFatal(r interface{}) bool {
	_, ok := r.(*FatalError)
	return ok
}
