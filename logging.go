package contextualmocker

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// logHolder lets SetLogger swap the active logger without a data race
// against the registry/cleanup goroutines reading it concurrently.
var logHolder atomic.Pointer[logiface.Logger[*stumpy.Event]]

func init() {
	logHolder.Store(logiface.New[*stumpy.Event]())
}

// log returns the currently configured logger; by default it is disabled
// (no writer attached), a safe-by-default logger that callers opt into via
// SetLogger.
func log() *logiface.Logger[*stumpy.Event] { return logHolder.Load() }

// SetLogger replaces the package-wide logger used by the registry, its
// cleanup engine, and verification failure reporting. Pass nil to restore
// the disabled default.
func SetLogger(l *logiface.Logger[*stumpy.Event]) {
	if l == nil {
		l = logiface.New[*stumpy.Event]()
	}
	logHolder.Store(l)
}

// NewStumpyLogger is a convenience wrapper around stumpy.L.New +
// stumpy.L.WithStumpy for callers who just want JSON-to-stderr output
// without pulling in the stumpy package directly.
func NewStumpyLogger(options ...stumpy.Option) *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(stumpy.L.WithStumpy(options...))
}
