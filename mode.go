package contextualmocker

import "fmt"

// Mode is a verification predicate over an observed matching-invocation
// count.
type Mode struct {
	desc      string
	satisfied func(actual int) bool
	tip       func(actual int) string
}

func (m Mode) String() string { return m.desc }

// Times requires exactly n matching invocations.
func Times(n int) Mode {
	return Mode{
		desc:      fmt.Sprintf("times(%d)", n),
		satisfied: func(actual int) bool { return actual == n },
		tip: func(actual int) string {
			if actual < n {
				return "fewer matching invocations were recorded than expected; check the call happened with the expected arguments"
			}
			return "more matching invocations were recorded than expected; check for an unintended extra call"
		},
	}
}

// Never requires zero matching invocations.
func Never() Mode { return Times(0) }

// AtLeast requires at least n matching invocations.
func AtLeast(n int) Mode {
	return Mode{
		desc:      fmt.Sprintf("atLeast(%d)", n),
		satisfied: func(actual int) bool { return actual >= n },
		tip:       func(int) string { return "too few matching invocations were recorded" },
	}
}

// AtLeastOnce requires at least one matching invocation.
func AtLeastOnce() Mode { return AtLeast(1) }

// AtMost requires at most n matching invocations.
func AtMost(n int) Mode {
	return Mode{
		desc:      fmt.Sprintf("atMost(%d)", n),
		satisfied: func(actual int) bool { return actual <= n },
		tip:       func(int) string { return "too many matching invocations were recorded" },
	}
}
