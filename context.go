package contextualmocker

// Context is the opaque, caller-supplied identifier that partitions
// stubbing rules, invocation logs, and state for a given mock. Any
// comparable value works: a string, an int, a struct of comparable
// fields. The value's equality and hash must stay stable for as long as
// any registry entry is keyed by it; mutating a context value after use
// is the caller's responsibility to avoid, and is not enforced here.
type Context = any

// StringContext is the one concrete Context implementation this package
// ships, for callers who just want a named string (a tenant id, a test
// name) rather than defining their own comparable type.
type StringContext string

// unsetType is the sentinel occupying a (mock, context) state cell before
// any rule has transitioned it, and after a rule explicitly resets it via
// WillSetStateTo(Unset).
type unsetType struct{}

func (unsetType) String() string { return "<unset>" }

// Unset is the sentinel state value. WhenStateIs(Unset) requires the state
// cell be in its initial/reset condition; WillSetStateTo(Unset) resets it.
var Unset unsetType
