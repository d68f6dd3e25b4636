package contextualmocker

import (
	"fmt"
	"reflect"

	"github.com/dallenpyrah/contextualmocker/internal/capture"
	"github.com/dallenpyrah/contextualmocker/internal/errs"
	"github.com/dallenpyrah/contextualmocker/internal/identity"
)

// Mock is the interception-collaborator contract: embed it in a
// hand-written or generated proxy struct and route every intercepted
// method to Handle. Go's method sets are fixed at compile time, so this
// package cannot synthesize an implementation of an arbitrary interface
// the way a reflection-based mock might in a dynamically dispatched
// language; Handle is the thin seam a real code generator's output, or a
// hand-written shim like the ones in this package's tests, calls into.
type Mock struct {
	key      identity.Key
	registry *Registry
	spy      any
}

// NewMock stamps a fresh identity for outer - the proxy value itself
// (e.g. the *MockGreeter a caller constructs), not Mock - and binds it to
// reg. A nil reg uses Default.
func NewMock[T any](reg *Registry, outer *T) *Mock {
	if reg == nil {
		reg = Default
	}
	return &Mock{key: identity.New(outer), registry: reg}
}

// NewSpy behaves as NewMock, but delegates any call for which no rule
// matches to real, dispatched by method name via reflection. Spy
// delegation is a property of the mock object, not the registry.
func NewSpy[T any](reg *Registry, outer *T, real any) *Mock {
	m := NewMock(reg, outer)
	m.spy = real
	return m
}

// Key exposes the mock's identity key, e.g. for diagnostics.
func (m *Mock) Key() identity.Key { return m.key }

// Handle is the single entry point every proxy method calls into,
// supplying a stable method descriptor, the call's argument list, and
// optionally the static Go type of each return value (used to synthesize
// a well-typed zero value when no rule matches or during capture mode). It
// implements the resolve/select/transition/record/execute algorithm that
// drives every stubbed call.
func (m *Mock) Handle(method string, args []any, returnTypes ...reflect.Type) []any {
	ctx, err := CurrentContext()
	if err != nil {
		panic(err)
	}

	s := m.registry.slotFor(m.key, ctx)

	if capture.Active() {
		return m.handleCapture(s, ctx, method, args, returnTypes)
	}
	return m.handleDispatch(s, ctx, method, args, returnTypes)
}

func (m *Mock) invokeSpy(method string, args []any) []any {
	v := reflect.ValueOf(m.spy)
	mv := v.MethodByName(method)
	if !mv.IsValid() {
		panic(&errs.ArgumentError{Msg: fmt.Sprintf("spy has no method %q", method)})
	}
	mt := mv.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil && i < mt.NumIn() {
			in[i] = reflect.Zero(mt.In(i))
		} else {
			in[i] = reflect.ValueOf(a)
		}
	}
	out := mv.Call(in)
	results := make([]any, len(out))
	for i, o := range out {
		results[i] = o.Interface()
	}
	return results
}
