package contextualmocker

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Invocation is an immutable record of one call through a Mock's Handle
// method. Every field except Verified is fixed at creation; Verified flips
// from false to true the moment a verification matches it, and never flips
// back.
type Invocation struct {
	Method    string
	Args      []any
	Context   Context
	Timestamp time.Time
	GoroutineID int64
	Matchers  []matcherArg
	Verified  atomic.Bool
}

// matcherArg pairs a captured matcher, if any, with the literal argument
// value observed at the same position: when no matcher was captured for a
// position, the literal is matched by deep equality instead.
type matcherArg struct {
	matcher Matcher
	literal any
	hasM    bool
}

func (i *Invocation) String() string {
	return fmt.Sprintf("%s(%v)@%s [verified=%t]", i.Method, i.Args, i.Timestamp.Format(time.RFC3339Nano), i.Verified.Load())
}
