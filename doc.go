// Package contextualmocker implements a thread-safe mock state engine whose
// stubbing rules, invocation logs, and per-mock state are partitioned by two
// independent axes: the mock instance, and a caller-supplied context
// identifier (a tenant, a session, a request - whatever the caller chooses).
//
// Stubbing, invocation, and verification performed concurrently against a
// shared mock, each under its own context, are isolated from one another:
// see Registry for the concurrent store, Given/Verify for the fluent
// builders, and ScopedContext for the per-goroutine current-context stack.
package contextualmocker
