package contextualmocker

import (
	"fmt"
	"reflect"
	"time"
)

// Matcher is the root-package view of an argument matcher: the same shape
// internal/capture and the matchers package use, repeated here so rule.go
// and handler.go don't need to import matchers for the interface alone.
type Matcher interface {
	Match(arg any) bool
	String() string
}

// Action identifies what a matched Rule does.
type Action int

const (
	// ActionReturn returns ReturnValues verbatim.
	ActionReturn Action = iota
	// ActionThrow raises ThrowValue verbatim.
	ActionThrow
	// ActionAnswer invokes AnswerFunc and returns/raises its result.
	ActionAnswer
)

// Answer is a dynamic stubbing action. It receives
// the resolved context, the mock the call landed on, the method descriptor,
// and the argument snapshot, and returns the values to hand back to the
// caller. A panicking Answer propagates verbatim through Handle.
type Answer func(ctx Context, mock *Mock, method string, args []any) []any

// ArgSpec is one positional argument specification within a Rule: either a
// Matcher captured via the matcher channel, or the literal value observed
// at the call site when no matcher was captured for that position.
type ArgSpec struct {
	Matcher Matcher
	Literal any
}

func (a ArgSpec) matches(arg any) bool {
	if a.Matcher != nil {
		return a.Matcher.Match(arg)
	}
	return reflect.DeepEqual(arg, a.Literal)
}

func (a ArgSpec) String() string {
	if a.Matcher != nil {
		return a.Matcher.String()
	}
	return fmt.Sprintf("%v", a.Literal)
}

// Rule is an immutable stubbing rule: "when called in state S with args
// matching M, produce X, optionally transition to S'". It becomes immutable
// the moment it is appended to a registry slot, via Freeze.
type Rule struct {
	Method string
	Args   []ArgSpec // nil means wildcard: any argument list matches

	Action       Action
	ReturnValues []any
	ThrowValue   any
	AnswerFunc   Answer

	HasRequiredState bool
	RequiredState    any
	HasNextState     bool
	NextState        any

	TTL       time.Duration
	CreatedAt time.Time

	frozen bool
}

// Freeze marks r as immutable. Called once, by the registry, at insertion
// time; subsequent field writes are a caller bug. Freeze only sets a flag:
// the fields stay exported and nothing checks the flag before a write.
func (r *Rule) Freeze() { r.frozen = true }

// expired reports whether r's TTL has elapsed as of now.
func (r *Rule) expired(now time.Time) bool {
	return r.TTL > 0 && now.Sub(r.CreatedAt) >= r.TTL
}

// matchesArgs reports whether args satisfies r's argument specification.
// A nil Args slice is a wildcard matching any argument list. The fluent
// GivenBuilder always produces a non-nil Args (even a no-argument method
// stubs to an empty, non-nil slice); this wildcard exists for Rules built
// directly, bypassing the builder.
func (r *Rule) matchesArgs(args []any) bool {
	if r.Args == nil {
		return true
	}
	return matchArgSpecs(r.Args, args)
}

// matchArgSpecs reports whether args satisfies specs positionally: a
// length mismatch never matches (callers only ever build specs whose
// length matches the call's arity, so this only guards a future refactor,
// not user input).
func matchArgSpecs(specs []ArgSpec, args []any) bool {
	if len(specs) != len(args) {
		return false
	}
	for i, spec := range specs {
		if !spec.matches(args[i]) {
			return false
		}
	}
	return true
}

// matchesState reports whether the snapshotted current state satisfies
// r's required_state guard.
func (r *Rule) matchesState(current any) bool {
	if !r.HasRequiredState {
		return true
	}
	return current == r.RequiredState
}

func (r *Rule) String() string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("Rule{%s(%v) action=%d}", r.Method, args, r.Action)
}
