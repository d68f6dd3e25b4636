package contextualmocker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePanicsWithoutCurrentContext(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)

	assert.PanicsWithError(t, (&NoContextError{}).Error(), func() {
		a.Greet("Ada")
	})
}

func TestHandleReturnsZeroValuesWithNoMatchingRule(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)

	SetContext("ctx")
	defer ClearContext()

	assert.Equal(t, "", a.Greet("Ada"))
	assert.Equal(t, []string{}, a.Broadcast([]string{"x"}))
}

func TestNewSpyDelegatesUnstubbedCalls(t *testing.T) {
	reg := newTestRegistry()
	spy := NewSpyGreeter(reg, realGreeter{})

	SetContext("ctx")
	defer ClearContext()

	assert.Equal(t, "hello, Ada", spy.Greet("Ada"))

	Given(spy.Mock()).ForContext("ctx").When(func() { spy.Greet("Ada") }).ThenReturn("overridden")
	assert.Equal(t, "overridden", spy.Greet("Ada"))
	// an unstubbed argument still falls through to the real implementation.
	assert.Equal(t, "hello, Grace", spy.Greet("Grace"))
}

func TestKeyIsStableAcrossHandleCalls(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)
	require.False(t, a.Mock().Key().Zero())
	assert.Equal(t, a.Mock().Key(), a.Mock().Key())
}
