// Package capture implements the matcher capture channel: a per-goroutine
// ordered buffer that lets argument-matcher literals (eq(...), any(), ...),
// evaluated inline inside a user-authored method call, communicate
// themselves to the stubbing/verification builder that triggered the call.
package capture

import (
	"sync"

	"github.com/dallenpyrah/contextualmocker/internal/gid"
)

// Matcher is the minimal shape internal/capture needs from an argument
// matcher literal; the public matchers package implements it.
type Matcher interface {
	Match(arg any) bool
	String() string
}

type buffer struct {
	mu     sync.Mutex
	active bool
	items  []Matcher
}

var (
	buffers    sync.Map // goroutine id (int64) -> *buffer
	bufferPool = sync.Pool{New: func() any { return new(buffer) }}
)

func current() *buffer {
	id := gid.Current()
	if v, ok := buffers.Load(id); ok {
		return v.(*buffer)
	}
	b := bufferPool.Get().(*buffer)
	actual, _ := buffers.LoadOrStore(id, b)
	return actual.(*buffer)
}

// Enable turns on capture mode for the calling goroutine. It must be paired
// with a later Disable, typically via defer.
func Enable() {
	b := current()
	b.mu.Lock()
	b.active = true
	b.items = b.items[:0]
	b.mu.Unlock()
}

// Disable turns off capture mode for the calling goroutine, returning the
// backing buffer to the pool once drained of any remaining references.
func Disable() {
	id := gid.Current()
	if v, ok := buffers.LoadAndDelete(id); ok {
		b := v.(*buffer)
		b.mu.Lock()
		b.active = false
		b.items = nil
		b.mu.Unlock()
		bufferPool.Put(b)
	}
}

// Active reports whether the calling goroutine currently has capture mode
// enabled.
func Active() bool {
	id := gid.Current()
	v, ok := buffers.Load(id)
	if !ok {
		return false
	}
	b := v.(*buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Register appends m to the calling goroutine's capture buffer, in
// evaluation order. It is a no-op if capture mode is not active.
func Register(m Matcher) {
	id := gid.Current()
	v, ok := buffers.Load(id)
	if !ok {
		return
	}
	b := v.(*buffer)
	b.mu.Lock()
	if b.active {
		b.items = append(b.items, m)
	}
	b.mu.Unlock()
}

// Drain returns the captured matchers for the calling goroutine, in
// evaluation order, and resets the buffer to empty. It does not require
// capture mode to still be active.
func Drain() []Matcher {
	id := gid.Current()
	v, ok := buffers.Load(id)
	if !ok {
		return nil
	}
	b := v.(*buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Matcher, len(b.items))
	copy(out, b.items)
	b.items = b.items[:0]
	return out
}
