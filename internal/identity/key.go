// Package identity implements weak, identity-based keys for mock objects.
//
// A Key represents a mock by reference identity, not by value equality: two
// Keys compare equal only when they were stamped from the same New call, and
// the key itself never prevents its referent from being garbage collected.
package identity

import (
	"sync/atomic"
	"unsafe"
	"weak"
)

// Key is a weak, identity-based reference to a registered mock. It is safe
// to use as a map key: Go's built-in equality on weak.Pointer[byte] already
// implements "same underlying object", and the stamped id gives a stable
// hash source that survives the referent being reclaimed.
type Key struct {
	id  uint64
	ref weak.Pointer[byte]
}

var nextID uint64

// New stamps a fresh identity Key for mock, the pointer backing some mock
// value. The Key holds only a weak back-reference: it never keeps mock
// reachable.
func New[T any](mock *T) Key {
	return Key{
		id: atomic.AddUint64(&nextID, 1),
		// Rule 1 of the unsafe.Pointer contract: converting *T to
		// unsafe.Pointer and back (here, to *byte) is valid regardless of T
		// and byte's layout, since the resulting *byte is never dereferenced
		// - it exists purely so weak.Make can track the allocation.
		ref: weak.Make((*byte)(unsafe.Pointer(mock))),
	}
}

// Hash returns a value stable for the lifetime of the process, suitable for
// use in diagnostics. It remains stable even after the referent is reclaimed.
func (k Key) Hash() uint64 { return k.id }

// Alive reports whether the referent is still reachable. Once false, it can
// never become true again: the entry is eligible for cleanup.
func (k Key) Alive() bool { return k.ref.Value() != nil }

// Zero reports whether k is the zero Key (never returned by New).
func (k Key) Zero() bool { return k.id == 0 }
