package contextualmocker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentContextNoneSet(t *testing.T) {
	_, err := CurrentContext()
	require.Error(t, err)
	var nc *NoContextError
	assert.ErrorAs(t, err, &nc)
}

func TestSetClearContext(t *testing.T) {
	SetContext("tenant-a")
	defer ClearContext()

	ctx, err := CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", ctx)
}

func TestScopedContextNesting(t *testing.T) {
	outer := ScopedContext("outer")
	ctx, err := CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "outer", ctx)

	inner := ScopedContext("inner")
	ctx, err = CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "inner", ctx)

	inner.Release()
	ctx, err = CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "outer", ctx)

	outer.Release()
	_, err = CurrentContext()
	assert.Error(t, err)
}

func TestScopeReleaseIsIdempotent(t *testing.T) {
	sc := ScopedContext("once")
	sc.Release()
	assert.NotPanics(t, func() { sc.Release() })
	_, err := CurrentContext()
	assert.Error(t, err)
}

func TestScopedContextPurgesInvocationsOnRelease(t *testing.T) {
	reg := NewRegistry(WithCleanupConfig(CleanupConfig{AutoEnabled: false}))
	mg := NewMockGreeter(reg)

	func() {
		sc := ScopedContext("req-1")
		defer sc.Release()
		mg.Greet("Ada")
	}()

	s, ok := reg.lookupSlot(mg.Mock().Key(), "req-1")
	require.True(t, ok)
	assert.Empty(t, s.snapshotInvocations())
}

func TestGoInheritsCurrentContext(t *testing.T) {
	SetContext("parent-ctx")
	defer ClearContext()

	var wg sync.WaitGroup
	wg.Add(1)
	seen := make(chan Context, 1)
	Go(func() {
		defer wg.Done()
		ctx, err := CurrentContext()
		if err != nil {
			seen <- nil
			return
		}
		seen <- ctx
	})
	wg.Wait()

	assert.Equal(t, Context("parent-ctx"), <-seen)
}
