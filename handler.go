package contextualmocker

import (
	"fmt"
	"reflect"
	"time"

	"github.com/dallenpyrah/contextualmocker/internal/capture"
	"github.com/dallenpyrah/contextualmocker/internal/errs"
	"github.com/dallenpyrah/contextualmocker/internal/gid"
)

// maxStateCASRetries bounds the state-transition retry loop: after this
// many failed compare-and-sets, the latest state is accepted and
// selection runs once more without retrying further.
const maxStateCASRetries = 8

// handleCapture runs while capture mode is active: no rule is dispatched.
// Instead the matcher buffer captured during argument evaluation is
// combined positionally with the literal argument values into a tentative
// invocation record, which given.go and verify.go will read back and then
// remove.
func (m *Mock) handleCapture(s *slot, ctx Context, method string, args []any, returnTypes []reflect.Type) []any {
	captured := capture.Drain()
	if len(captured) > len(args) {
		panic(&errs.StubbingMisuse{
			Msg: fmt.Sprintf("%d matcher(s) captured for %s, but only %d argument(s) were supplied", len(captured), method, len(args)),
		})
	}

	specs := make([]matcherArg, len(args))
	for i := range args {
		if i < len(captured) {
			specs[i] = matcherArg{matcher: captured[i], hasM: true}
		} else {
			specs[i] = matcherArg{literal: args[i]}
		}
	}

	inv := &Invocation{
		Method:      method,
		Args:        append([]any(nil), args...),
		Context:     ctx,
		Timestamp:   time.Now(),
		GoroutineID: gid.Current(),
		Matchers:    specs,
	}
	s.appendInvocation(inv)

	return zeroValues(returnTypes)
}

// handleDispatch snapshots state, selects the most-recently-inserted
// matching rule, atomically applies its state transition (retrying on CAS
// failure), records the invocation, then executes the rule's action.
func (m *Mock) handleDispatch(s *slot, ctx Context, method string, args []any, returnTypes []reflect.Type) []any {
	now := time.Now()

	var rule *Rule
	settled := false
	for attempt := 0; attempt < maxStateCASRetries; attempt++ {
		box, state := s.currentState()
		rule = s.selectRule(method, args, state, now)
		if rule == nil || !rule.HasNextState {
			settled = true
			break
		}
		if s.transition(box, rule.NextState) {
			settled = true
			break
		}
		// another call transitioned first; re-snapshot and re-select.
	}
	if !settled {
		// retries exhausted: accept the latest state and select once more,
		// attempting that rule's transition a single time.
		box, state := s.currentState()
		rule = s.selectRule(method, args, state, now)
		if rule != nil && rule.HasNextState {
			s.transition(box, rule.NextState)
		}
	}

	inv := &Invocation{
		Method:      method,
		Args:        append([]any(nil), args...),
		Context:     ctx,
		Timestamp:   now,
		GoroutineID: gid.Current(),
	}
	m.registry.recordInvocation(s, inv)
	touchScope(m.key, m.registry)

	if rule == nil {
		if m.spy != nil {
			return m.invokeSpy(method, args)
		}
		return zeroValues(returnTypes)
	}

	switch rule.Action {
	case ActionReturn:
		return rule.ReturnValues
	case ActionThrow:
		panic(rule.ThrowValue)
	case ActionAnswer:
		return rule.AnswerFunc(ctx, m, method, args)
	default:
		return zeroValues(returnTypes)
	}
}
