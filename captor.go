package contextualmocker

import (
	"sync"

	"github.com/dallenpyrah/contextualmocker/internal/capture"
)

// Captor records every argument value passed to it, in two ways at once: a
// single ordered history across every context, and a second history bucketed
// by whatever context was current on the calling goroutine at the moment of
// the match. Capture() returns a zero T so a Captor can stand in for a real
// argument at the call site, the same way the matchers package's literals do.
//
// A Captor matches unconditionally, recording as a side effect; it never
// causes a rule or verification to reject a call. If the observed value
// can't be asserted to T, the match still succeeds but nothing is recorded.
// Argument positions are checked in order and checking stops at the first
// position that fails, so a Captor records a value whenever every position
// before it matched, even if a later position then rejects the call.
type Captor[T any] struct {
	mu        sync.Mutex
	values    []T
	byContext map[Context][]T
}

// Match always reports true: a Captor never fails an argument list. If arg
// isn't assignable to T, nothing is recorded.
func (c *Captor[T]) Match(arg any) bool {
	v, ok := arg.(T)
	if !ok {
		return true
	}
	c.mu.Lock()
	c.values = append(c.values, v)
	if ctx, err := CurrentContext(); err == nil {
		if c.byContext == nil {
			c.byContext = make(map[Context][]T)
		}
		c.byContext[ctx] = append(c.byContext[ctx], v)
	}
	c.mu.Unlock()
	return true
}

func (c *Captor[T]) String() string { return "captor()" }

// Capture registers c on the calling goroutine's matcher capture buffer and
// returns a zero T to substitute at the call site.
func (c *Captor[T]) Capture() T {
	capture.Register(c)
	var zero T
	return zero
}

// Value returns the most recently captured value, and whether anything has
// been captured yet, across every context.
func (c *Captor[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if len(c.values) == 0 {
		return zero, false
	}
	return c.values[len(c.values)-1], true
}

// AllValues returns every value captured so far, oldest first, across every
// context.
func (c *Captor[T]) AllValues() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.values))
	copy(out, c.values)
	return out
}

// ValueForContext returns the most recently captured value recorded while
// ctx was current, and whether anything has been captured under it yet.
func (c *Captor[T]) ValueForContext(ctx Context) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	vs := c.byContext[ctx]
	if len(vs) == 0 {
		return zero, false
	}
	return vs[len(vs)-1], true
}

// AllValuesForContext returns every value captured while ctx was current,
// oldest first.
func (c *Captor[T]) AllValuesForContext(ctx Context) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	vs := c.byContext[ctx]
	out := make([]T, len(vs))
	copy(out, vs)
	return out
}

// Reset discards every previously captured value, global and per-context.
func (c *Captor[T]) Reset() {
	c.mu.Lock()
	c.values = nil
	c.byContext = nil
	c.mu.Unlock()
}
