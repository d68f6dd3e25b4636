package contextualmocker

import (
	"reflect"
	"sync"
)

// zeroCache memoizes the zero value computed for each observed
// reflect.Type, so repeated calls against the same method signature skip
// the reflect.MakeSlice/MakeMap/Zero work.
var zeroCache sync.Map // reflect.Type -> any

// zeroValue returns the canonical default for t: false/0/"" for the
// obvious kinds, a usable empty (non-nil) slice or map for collection
// types so range/len/read access behaves like an empty collection
// without a nil-check, and the zero value for everything else (including
// pointers, interfaces, and channels, which are nil-ish by construction
// in Go).
func zeroValue(t reflect.Type) any {
	if t == nil {
		return nil
	}
	if v, ok := zeroCache.Load(t); ok {
		return v
	}
	var v any
	switch t.Kind() {
	case reflect.Slice:
		v = reflect.MakeSlice(t, 0, 0).Interface()
	case reflect.Map:
		v = reflect.MakeMap(t).Interface()
	default:
		v = reflect.Zero(t).Interface()
	}
	zeroCache.Store(t, v)
	return v
}

// zeroValues computes zeroValue for each of types, in order; a nil entry
// in types yields a nil result at that position (used when the caller
// doesn't know/care about a particular return slot's static type).
func zeroValues(types []reflect.Type) []any {
	if len(types) == 0 {
		return nil
	}
	out := make([]any, len(types))
	for i, t := range types {
		out[i] = zeroValue(t)
	}
	return out
}
