package contextualmocker

import "fmt"

// maxRecentInvocations bounds how many matching invocations a
// VerificationFailure lists verbatim; anything older is folded into
// TruncatedCount.
const maxRecentInvocations = 10

func buildVerificationFailure(mockHash uint64, ctx Context, method string, specs []ArgSpec, mode Mode, matched []*Invocation) *VerificationFailure {
	f := &VerificationFailure{
		Mock:            fmt.Sprintf("%016x", mockHash),
		Context:         ctx,
		Method:          method,
		ArgsDescription: describeArgSpecs(specs),
		Mode:            mode.String(),
		Actual:          len(matched),
	}

	recent := matched
	if len(recent) > maxRecentInvocations {
		f.TruncatedCount = len(recent) - maxRecentInvocations
		recent = recent[len(recent)-maxRecentInvocations:]
	}
	for _, inv := range recent {
		f.Recent = append(f.Recent, inv.String())
	}

	f.Tips = []string{mode.tip(len(matched))}
	if len(matched) == 0 {
		f.Tips = append(f.Tips, "zero invocations matched; check the method name, context, and argument matchers")
	}
	return f
}

func describeArgSpecs(specs []ArgSpec) string {
	out := "("
	for i, s := range specs {
		if i > 0 {
			out += ", "
		}
		out += s.String()
	}
	return out + ")"
}
