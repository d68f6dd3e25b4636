package contextualmocker

import (
	"sync"

	"github.com/dallenpyrah/contextualmocker/internal/gid"
	"github.com/dallenpyrah/contextualmocker/internal/identity"
)

// scopeFrame is one entry on a goroutine's context stack. touched records
// every mock, on every registry, that was invoked while this frame was
// the current top, so releasing it can purge their invocation logs.
type scopeFrame struct {
	ctx     Context
	touched map[identity.Key]*Registry
}

type contextStack struct {
	mu     sync.Mutex
	frames []*scopeFrame
}

var stacks sync.Map // int64 (goroutine id) -> *contextStack

func stackFor(id int64) *contextStack {
	if v, ok := stacks.Load(id); ok {
		return v.(*contextStack)
	}
	actual, _ := stacks.LoadOrStore(id, &contextStack{})
	return actual.(*contextStack)
}

// Scope is returned by ScopedContext; Release restores whatever context
// was current before it was acquired.
type Scope struct {
	id       int64
	released bool
}

// SetContext pushes ctx as the new current context for the calling
// goroutine.
func SetContext(ctx Context) {
	st := stackFor(gid.Current())
	st.mu.Lock()
	st.frames = append(st.frames, &scopeFrame{ctx: ctx})
	st.mu.Unlock()
}

// ClearContext pops every frame on the calling goroutine's context stack,
// purging the invocation log of each released context, on every mock
// touched under it, as it goes.
func ClearContext() {
	st := stackFor(gid.Current())
	st.mu.Lock()
	frames := st.frames
	st.frames = nil
	st.mu.Unlock()

	for i := len(frames) - 1; i >= 0; i-- {
		releaseFrame(frames[i])
	}
}

// ScopedContext pushes ctx and returns a Scope whose Release restores the
// prior top, purging invocation logs as it does.
func ScopedContext(ctx Context) *Scope {
	id := gid.Current()
	st := stackFor(id)
	st.mu.Lock()
	st.frames = append(st.frames, &scopeFrame{ctx: ctx})
	st.mu.Unlock()
	return &Scope{id: id}
}

// Release restores the context that was current before this Scope was
// acquired. Calling Release more than once is a no-op.
func (sc *Scope) Release() {
	if sc == nil || sc.released {
		return
	}
	sc.released = true

	st := stackFor(sc.id)
	st.mu.Lock()
	var frame *scopeFrame
	if n := len(st.frames); n > 0 {
		frame = st.frames[n-1]
		st.frames = st.frames[:n-1]
	}
	st.mu.Unlock()

	releaseFrame(frame)
}

func releaseFrame(frame *scopeFrame) {
	if frame == nil {
		return
	}
	for key, reg := range frame.touched {
		reg.purgeInvocations(key, frame.ctx)
	}
}

// CurrentContext returns the calling goroutine's current (topmost)
// context, or a *NoContextError if none is set.
func CurrentContext() (Context, error) {
	st := stackFor(gid.Current())
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.frames) == 0 {
		return nil, &NoContextError{}
	}
	return st.frames[len(st.frames)-1].ctx, nil
}

// touchScope records that reg's mock key was invoked under the calling
// goroutine's current context frame, so a later Release/ClearContext
// purges its invocation log. It is a no-op if no frame is active.
func touchScope(key identity.Key, reg *Registry) {
	st := stackFor(gid.Current())
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.frames) == 0 {
		return
	}
	f := st.frames[len(st.frames)-1]
	if f.touched == nil {
		f.touched = make(map[identity.Key]*Registry)
	}
	f.touched[key] = reg
}

// Go launches fn in a new goroutine that inherits the calling goroutine's
// current context stack as its own initial frame. Crossing a goroutine
// boundary without going through Go does not carry scope along with it;
// a plain "go" statement starts with no context at all.
func Go(fn func()) {
	st := stackFor(gid.Current())
	st.mu.Lock()
	inherited := make([]*scopeFrame, len(st.frames))
	for i, f := range st.frames {
		// the child's frames start with an empty touched-set: purging on
		// the child's own release must not reach back into state the
		// parent frame is still responsible for.
		inherited[i] = &scopeFrame{ctx: f.ctx}
	}
	st.mu.Unlock()

	go func() {
		childStack := stackFor(gid.Current())
		childStack.mu.Lock()
		childStack.frames = inherited
		childStack.mu.Unlock()
		fn()
	}()
}
