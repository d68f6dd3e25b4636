// Package matchers implements the argument-matcher DSL: literals like Eq,
// Any, and Contains that are evaluated inline, inside the argument list of
// a user-authored call on a mock, and communicate themselves to the engine
// via the matcher capture channel (internal/capture).
//
// Every matcher function is generic over its argument's static type, so it
// can stand in for a real argument value at the call site while, as a side
// effect, registering a Matcher on the calling goroutine's capture buffer.
package matchers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dallenpyrah/contextualmocker/internal/capture"
)

// Matcher is an argument matcher: it reports whether arg satisfies it, and
// renders a human-readable description for diagnostics.
type Matcher interface {
	Match(arg any) bool
	String() string
}

// funcMatcher is the common Matcher implementation used by every matcher
// literal in this package.
type funcMatcher struct {
	desc  string
	match func(arg any) bool
}

func (m funcMatcher) Match(arg any) bool { return m.match(arg) }
func (m funcMatcher) String() string     { return m.desc }

func register(desc string, match func(arg any) bool) {
	capture.Register(funcMatcher{desc: desc, match: match})
}

// Any matches any value, including the zero value and nil.
func Any[T any]() T {
	register("any()", func(any) bool { return true })
	var zero T
	return zero
}

// Eq matches arguments deeply equal to v.
func Eq[T any](v T) T {
	register(fmt.Sprintf("eq(%v)", v), func(arg any) bool {
		return reflect.DeepEqual(arg, v)
	})
	return v
}

// IsNull matches only the zero value of a nilable type (pointer, interface,
// slice, map, channel, or function).
func IsNull[T any]() T {
	register("isNull()", func(arg any) bool { return isNil(arg) })
	var zero T
	return zero
}

// NotNull matches any value other than the zero value of a nilable type.
func NotNull[T any]() T {
	register("notNull()", func(arg any) bool { return !isNil(arg) })
	var zero T
	return zero
}

func isNil(arg any) bool {
	if arg == nil {
		return true
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// Contains matches strings containing substr.
func Contains(substr string) string {
	register(fmt.Sprintf("contains(%q)", substr), func(arg any) bool {
		s, ok := arg.(string)
		return ok && strings.Contains(s, substr)
	})
	return substr
}

// StartsWith matches strings with the given prefix.
func StartsWith(prefix string) string {
	register(fmt.Sprintf("startsWith(%q)", prefix), func(arg any) bool {
		s, ok := arg.(string)
		return ok && strings.HasPrefix(s, prefix)
	})
	return prefix
}

// EndsWith matches strings with the given suffix.
func EndsWith(suffix string) string {
	register(fmt.Sprintf("endsWith(%q)", suffix), func(arg any) bool {
		s, ok := arg.(string)
		return ok && strings.HasSuffix(s, suffix)
	})
	return suffix
}

// Regex matches strings against a regular expression pattern. It panics if
// pattern does not compile, the same way regexp.MustCompile does.
func Regex(pattern string) string {
	re := regexp.MustCompile(pattern)
	register(fmt.Sprintf("regex(%q)", pattern), func(arg any) bool {
		s, ok := arg.(string)
		return ok && re.MatchString(s)
	})
	return pattern
}

// Number is the set of types Range accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Range matches numeric values v such that lo <= v <= hi.
func Range[T Number](lo, hi T) T {
	register(fmt.Sprintf("range(%v, %v)", lo, hi), func(arg any) bool {
		v, ok := arg.(T)
		return ok && v >= lo && v <= hi
	})
	return lo
}

// Predicate matches values for which fn returns true. Type mismatches
// between the captured argument and T are treated as non-matches.
func Predicate[T any](desc string, fn func(T) bool) T {
	register(desc, func(arg any) bool {
		v, ok := arg.(T)
		return ok && fn(v)
	})
	var zero T
	return zero
}

// ArgThat registers an arbitrary Matcher implementation directly, for cases
// the built-in literals above don't cover.
func ArgThat[T any](m Matcher) T {
	register(m.String(), m.Match)
	var zero T
	return zero
}
