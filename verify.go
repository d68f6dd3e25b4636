package contextualmocker

import (
	"github.com/dallenpyrah/contextualmocker/internal/capture"
	"github.com/dallenpyrah/contextualmocker/internal/gid"
)

// VerifyBuilder is the fluent verification entry point: Verify(mock) opens
// it, ForContext picks the scope to check, and That runs the assertion.
type VerifyBuilder struct {
	mock *Mock
	ctx  Context
}

// Verify begins a verification against mock.
func Verify(mock *Mock) *VerifyBuilder {
	return &VerifyBuilder{mock: mock}
}

// ForContext scopes the verification to ctx.
func (v *VerifyBuilder) ForContext(ctx Context) *VerifyBuilder {
	v.ctx = ctx
	return v
}

// That runs fn, which must call exactly one method on the mock this
// builder was opened against, and checks that the number of previously
// recorded invocations matching that call's method and arguments
// satisfies mode. It returns a non-nil *VerificationFailure when it does
// not; every invocation it counted is marked verified either way.
func (v *VerifyBuilder) That(mode Mode, fn func()) error {
	if v.mock == nil {
		panic(argumentErrorf("verify: nil mock"))
	}

	scope := ScopedContext(v.ctx)
	defer scope.Release()

	capture.Enable()
	fn()
	capture.Disable()

	s := v.mock.registry.slotFor(v.mock.key, v.ctx)
	inv := s.removeLastByGoroutine(gid.Current())
	if inv == nil {
		panic(stubbingMisusef("verify: that(...) did not call a method on the mock"))
	}

	specs := buildArgSpecs(inv.Matchers)
	matched := s.matchAndMarkVerified(inv.Method, specs)

	if mode.satisfied(len(matched)) {
		return nil
	}
	f := buildVerificationFailure(v.mock.key.Hash(), v.ctx, inv.Method, specs, mode, matched)
	log().Debug().Str(`method`, inv.Method).Int(`actual`, len(matched)).Log(`verification failed`)
	return f
}

// VerifyNoInteractions reports a *VerificationFailure if any call has been
// recorded against mock under ctx.
func VerifyNoInteractions(mock *Mock, ctx Context) error {
	s, ok := mock.registry.lookupSlot(mock.key, ctx)
	if !ok {
		return nil
	}
	snap := s.snapshotInvocations()
	if len(snap) == 0 {
		return nil
	}
	f := buildVerificationFailure(mock.key.Hash(), ctx, "<any>", nil, noInteractionsMode, snap)
	return f
}

// VerifyNoMoreInteractions reports a *VerificationFailure if mock has any
// recorded invocation under ctx that no verify(...).that(...) call has
// matched yet.
func VerifyNoMoreInteractions(mock *Mock, ctx Context) error {
	s, ok := mock.registry.lookupSlot(mock.key, ctx)
	if !ok {
		return nil
	}
	snap := s.snapshotInvocations()
	var unverified []*Invocation
	for _, inv := range snap {
		if !inv.Verified.Load() {
			unverified = append(unverified, inv)
		}
	}
	if len(unverified) == 0 {
		return nil
	}
	return buildVerificationFailure(mock.key.Hash(), ctx, "<any>", nil, noMoreInteractionsMode, unverified)
}

var noInteractionsMode = Mode{
	desc:      "no_interactions",
	satisfied: func(actual int) bool { return actual == 0 },
	tip:       func(int) string { return "the mock had interactions but none were expected" },
}

var noMoreInteractionsMode = Mode{
	desc:      "no_more_interactions",
	satisfied: func(actual int) bool { return actual == 0 },
	tip:       func(int) string { return "one or more recorded invocations were never verified" },
}
