// Package errs defines the error taxonomy of the mock state engine:
// library-raised errors distinguishable from values a user's dynamic
// answer or then_throw deliberately propagates.
package errs

import (
	"fmt"
	"strconv"

	"github.com/joeycumines/go-utilpkg/jsonenc"
)

// ArgumentError indicates a nil mock handed to a stubbing or verification
// builder, or a spy call naming a method the spied value does not have. A
// nil context is not rejected: it is an ordinary context value.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return "contextualmocker: argument error: " + e.Msg }

// NoContextError indicates a mock invocation outside capture mode without a
// current context having been set on the calling goroutine.
type NoContextError struct{}

func (e *NoContextError) Error() string {
	return "contextualmocker: no current context set on this goroutine"
}

// StubbingMisuse indicates a malformed stubbing or verification setup: more
// matchers captured than the call has arguments, a when/that lambda that
// calls no method on the mock, or a terminal operation invoked without a
// preceding when. A matcher list shorter than the argument list is not an
// error (the remaining positions match their literal values), and a state
// modifier applied after a terminal operation is not detected.
type StubbingMisuse struct {
	Msg string
}

func (e *StubbingMisuse) Error() string { return "contextualmocker: stubbing misuse: " + e.Msg }

// VerificationFailure indicates an observed invocation count disagreed with
// the requested verification mode, that verify_no_interactions found any
// record, or that verify_no_more_interactions found an unverified one.
// Diagnostic fields are populated by buildVerificationFailure in failure.go.
type VerificationFailure struct {
	Mock            string
	Context         any
	Method          string
	ArgsDescription string
	Mode            string
	Actual          int
	Recent          []string
	TruncatedCount  int
	Tips            []string
}

func (e *VerificationFailure) Error() string {
	s := fmt.Sprintf(
		"contextualmocker: verification failed: mock=%s context=%v method=%s args=%s mode=%s actual=%d",
		e.Mock, e.Context, e.Method, e.ArgsDescription, e.Mode, e.Actual,
	)
	for _, r := range e.Recent {
		s += "\n  - " + r
	}
	if e.TruncatedCount > 0 {
		s += fmt.Sprintf("\n  ... and %d more", e.TruncatedCount)
	}
	for _, tip := range e.Tips {
		s += "\ntip: " + tip
	}
	return s
}

// MarshalJSON renders the failure for structured logging or a CI artifact,
// built with jsonenc's append-style string encoder rather than
// encoding/json; the Context field is rendered with fmt's %v formatting.
func (e *VerificationFailure) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	buf = append(buf, `"mock":`...)
	buf = jsonenc.AppendString(buf, e.Mock)
	buf = append(buf, `,"context":`...)
	buf = jsonenc.AppendString(buf, fmt.Sprintf("%v", e.Context))
	buf = append(buf, `,"method":`...)
	buf = jsonenc.AppendString(buf, e.Method)
	buf = append(buf, `,"args":`...)
	buf = jsonenc.AppendString(buf, e.ArgsDescription)
	buf = append(buf, `,"mode":`...)
	buf = jsonenc.AppendString(buf, e.Mode)
	buf = append(buf, `,"actual":`...)
	buf = strconv.AppendInt(buf, int64(e.Actual), 10)
	buf = append(buf, `,"truncated":`...)
	buf = strconv.AppendInt(buf, int64(e.TruncatedCount), 10)
	buf = append(buf, `,"recent":[`...)
	for i, r := range e.Recent {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = jsonenc.AppendString(buf, r)
	}
	buf = append(buf, `],"tips":[`...)
	for i, t := range e.Tips {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = jsonenc.AppendString(buf, t)
	}
	buf = append(buf, ']', '}')
	return buf, nil
}
