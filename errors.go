package contextualmocker

import (
	"fmt"

	"github.com/dallenpyrah/contextualmocker/internal/errs"
)

// Re-exported so callers can use errors.As(err, &contextualmocker.ArgumentError{})
// without importing the internal package.
type (
	ArgumentError       = errs.ArgumentError
	NoContextError      = errs.NoContextError
	StubbingMisuse      = errs.StubbingMisuse
	VerificationFailure = errs.VerificationFailure
)

func argumentErrorf(format string, args ...any) *ArgumentError {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

func stubbingMisusef(format string, args ...any) *StubbingMisuse {
	return &StubbingMisuse{Msg: fmt.Sprintf(format, args...)}
}
