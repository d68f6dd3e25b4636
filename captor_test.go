package contextualmocker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptorCapturesVerifiedArguments(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)

	SetContext("ctx")
	defer ClearContext()
	a.Greet("Ada")
	a.Greet("Grace")

	var captor Captor[string]
	err := Verify(a.Mock()).ForContext("ctx").That(Times(2), func() { a.Greet(captor.Capture()) })
	require.NoError(t, err)

	last, ok := captor.Value()
	require.True(t, ok)
	assert.Equal(t, "Grace", last)
	assert.Equal(t, []string{"Ada", "Grace"}, captor.AllValues())

	captor.Reset()
	_, ok = captor.Value()
	assert.False(t, ok)
	assert.Empty(t, captor.AllValues())
}

func TestCaptorTypeMismatchStillMatchesButSkipsRecording(t *testing.T) {
	var captor Captor[int]
	assert.True(t, captor.Match("not an int"), "a captor never rejects a call, even on a type mismatch")
	assert.Empty(t, captor.AllValues())
}

func TestCaptorPerContextIsolation(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)
	var captor Captor[string]

	func() {
		SetContext("tenant-a")
		defer ClearContext()
		a.Greet("Ada")
		require.NoError(t, Verify(a.Mock()).ForContext("tenant-a").That(AtLeastOnce(), func() { a.Greet(captor.Capture()) }))
	}()

	func() {
		SetContext("tenant-b")
		defer ClearContext()
		a.Greet("Grace")
		require.NoError(t, Verify(a.Mock()).ForContext("tenant-b").That(AtLeastOnce(), func() { a.Greet(captor.Capture()) }))
	}()

	va, ok := captor.ValueForContext("tenant-a")
	require.True(t, ok)
	assert.Equal(t, "Ada", va)

	vb, ok := captor.ValueForContext("tenant-b")
	require.True(t, ok)
	assert.Equal(t, "Grace", vb)

	assert.Equal(t, []string{"Ada"}, captor.AllValuesForContext("tenant-a"))
	assert.Equal(t, []string{"Grace"}, captor.AllValuesForContext("tenant-b"))
	assert.Equal(t, []string{"Ada", "Grace"}, captor.AllValues(), "the global history sees every context's captures")
}

func TestCaptorCapturesSliceArguments(t *testing.T) {
	reg := newTestRegistry()
	a := NewMockGreeter(reg)

	SetContext("ctx")
	defer ClearContext()
	a.Broadcast([]string{"a", "b"})

	var captor Captor[[]string]
	err := Verify(a.Mock()).ForContext("ctx").That(AtLeastOnce(), func() { a.Broadcast(captor.Capture()) })
	require.NoError(t, err)

	v, ok := captor.Value()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}
