package contextualmocker

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValue(t *testing.T) {
	t.Run(`nil type yields nil`, func(t *testing.T) {
		assert.Nil(t, zeroValue(nil))
	})

	t.Run(`slice yields a non-nil empty slice`, func(t *testing.T) {
		v := zeroValue(reflect.TypeOf([]string(nil)))
		s, ok := v.([]string)
		assert.True(t, ok)
		assert.NotNil(t, s)
		assert.Len(t, s, 0)
	})

	t.Run(`map yields a non-nil empty map`, func(t *testing.T) {
		v := zeroValue(reflect.TypeOf(map[string]int(nil)))
		m, ok := v.(map[string]int)
		assert.True(t, ok)
		assert.NotNil(t, m)
		assert.Len(t, m, 0)
	})

	t.Run(`scalar kinds yield the Go zero value`, func(t *testing.T) {
		assert.Equal(t, 0, zeroValue(reflect.TypeOf(0)))
		assert.Equal(t, "", zeroValue(reflect.TypeOf("")))
		assert.Equal(t, false, zeroValue(reflect.TypeOf(false)))
	})

	t.Run(`pointer and interface kinds stay nil`, func(t *testing.T) {
		assert.Nil(t, zeroValue(reflect.TypeOf((*int)(nil))))
		assert.Nil(t, zeroValue(reflect.TypeOf((*error)(nil)).Elem()))
	})

	t.Run(`repeated calls for the same type hit the cache`, func(t *testing.T) {
		typ := reflect.TypeOf([]int(nil))
		first := zeroValue(typ).([]int)
		second := zeroValue(typ).([]int)
		assert.Equal(t, first, second)
	})
}

func TestZeroValues(t *testing.T) {
	t.Run(`empty input yields nil`, func(t *testing.T) {
		assert.Nil(t, zeroValues(nil))
	})

	t.Run(`positional defaults`, func(t *testing.T) {
		out := zeroValues([]reflect.Type{reflect.TypeOf(""), reflect.TypeOf(0)})
		assert.Equal(t, []any{"", 0}, out)
	})
}
