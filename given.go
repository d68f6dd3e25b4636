package contextualmocker

import (
	"time"

	"github.com/dallenpyrah/contextualmocker/internal/capture"
	"github.com/dallenpyrah/contextualmocker/internal/gid"
)

// GivenBuilder is the fluent stubbing entry point: Given(mock) opens it,
// ForContext picks the scope the rule applies to, When captures a method
// call against mock, and a terminal then_* call appends the finished Rule.
type GivenBuilder struct {
	mock *Mock
	ctx  Context
	rule *Rule
}

// Given begins a stubbing setup against mock.
func Given(mock *Mock) *GivenBuilder {
	return &GivenBuilder{mock: mock, rule: &Rule{}}
}

// ForContext scopes the setup being built to ctx. Omitting it stubs for
// the zero Context.
func (g *GivenBuilder) ForContext(ctx Context) *GivenBuilder {
	g.ctx = ctx
	return g
}

// WhenStateIs requires state to equal required for this rule to match;
// pass Unset to require no state has yet been set.
func (g *GivenBuilder) WhenStateIs(required any) *GivenBuilder {
	g.rule.HasRequiredState = true
	g.rule.RequiredState = required
	return g
}

// WillSetStateTo transitions the slot's state to next the moment this rule
// is selected.
func (g *GivenBuilder) WillSetStateTo(next any) *GivenBuilder {
	g.rule.HasNextState = true
	g.rule.NextState = next
	return g
}

// TTL bounds how long the finished rule remains eligible for selection;
// zero (the default) means no expiry.
func (g *GivenBuilder) TTL(d time.Duration) *GivenBuilder {
	g.rule.TTL = d
	return g
}

// When runs fn, which must call exactly one method on the mock this
// builder was opened against, and records that call's method and argument
// specification as the rule under construction.
//
// fn runs with g's context as the calling goroutine's current context, so
// matchers evaluated inline and the eventual real dispatch both resolve
// CurrentContext identically.
func (g *GivenBuilder) When(fn func()) *GivenBuilder {
	if g.mock == nil {
		panic(argumentErrorf("given: nil mock"))
	}

	scope := ScopedContext(g.ctx)
	defer scope.Release()

	capture.Enable()
	fn()
	capture.Disable()

	s := g.mock.registry.slotFor(g.mock.key, g.ctx)
	inv := s.removeLastByGoroutine(gid.Current())
	if inv == nil {
		panic(stubbingMisusef("given: when(...) did not call a method on the mock"))
	}

	g.rule.Method = inv.Method
	g.rule.Args = buildArgSpecs(inv.Matchers)
	g.rule.CreatedAt = time.Now()
	return g
}

// ThenReturn finishes the rule: a matching call returns values verbatim.
func (g *GivenBuilder) ThenReturn(values ...any) {
	g.rule.Action = ActionReturn
	g.rule.ReturnValues = values
	g.finish()
}

// ThenThrow finishes the rule: a matching call panics with v.
func (g *GivenBuilder) ThenThrow(v any) {
	g.rule.Action = ActionThrow
	g.rule.ThrowValue = v
	g.finish()
}

// ThenAnswer finishes the rule: a matching call invokes fn dynamically.
func (g *GivenBuilder) ThenAnswer(fn Answer) {
	g.rule.Action = ActionAnswer
	g.rule.AnswerFunc = fn
	g.finish()
}

func (g *GivenBuilder) finish() {
	if g.rule.Method == "" {
		panic(stubbingMisusef("given: a then_* call must follow when(...)"))
	}
	s := g.mock.registry.slotFor(g.mock.key, g.ctx)
	s.appendRule(g.rule)
}

// buildArgSpecs converts the matcher/literal pairs captured by When into
// the Rule's positional argument specification.
func buildArgSpecs(specs []matcherArg) []ArgSpec {
	out := make([]ArgSpec, len(specs))
	for i, s := range specs {
		if s.hasM {
			out[i] = ArgSpec{Matcher: s.matcher}
		} else {
			out[i] = ArgSpec{Literal: s.literal}
		}
	}
	return out
}
