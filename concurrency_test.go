package contextualmocker

import (
	"context"
	"fmt"
	"testing"

	"github.com/dallenpyrah/contextualmocker/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentContextsStayIsolated drives many goroutines, each its own
// tenant, concurrently stubbing and calling the same mock, and asserts no
// tenant ever observes another tenant's stub, and that each tenant's
// invocation log is purged when its scope is released.
func TestConcurrentContextsStayIsolated(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)

	const tenants = 32
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < tenants; i++ {
		i := i
		g.Go(func() error {
			ctx := fmt.Sprintf("tenant-%d", i)
			want := fmt.Sprintf("hello from %s", ctx)

			Given(a.Mock()).ForContext(ctx).
				When(func() { a.Greet(matchers.Any[string]()) }).
				ThenReturn(want)

			sc := ScopedContext(ctx)
			defer sc.Release()

			for j := 0; j < 10; j++ {
				if got := a.Greet("anyone"); got != want {
					return fmt.Errorf("tenant %s: got %q, want %q", ctx, got, want)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 0; i < tenants; i++ {
		ctx := fmt.Sprintf("tenant-%d", i)
		s, ok := reg.lookupSlot(a.Mock().Key(), ctx)
		require.True(t, ok, "the rule set up for this tenant still owns a slot")
		assert.Empty(t, s.snapshotInvocations(), "the tenant's scope release should have purged its invocation log")
	}
}

// TestGoCarriesContextAcrossGoroutineBoundary exercises the explicit Go
// helper: a worker spawned mid-request should see the same current context
// its parent had, without needing to thread it through manually.
func TestGoCarriesContextAcrossGoroutineBoundary(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)

	Given(a.Mock()).ForContext("request-7").
		When(func() { a.Greet(matchers.Any[string]()) }).
		ThenReturn("handled")

	sc := ScopedContext("request-7")
	defer sc.Release()

	done := make(chan string, 1)
	Go(func() {
		done <- a.Greet("anyone")
	})
	assert.Equal(t, "handled", <-done)
}
