// Package gid identifies the calling goroutine.
//
// Go deliberately has no public goroutine-id API; this package fills that
// gap using the standard, portable technique of parsing the header line of
// runtime.Stack's output.
package gid

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// for testing
var runtimeStack = runtime.Stack

var stackBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 64)
		return &b
	},
}

// Current returns an identifier for the calling goroutine, stable for its
// lifetime. It is only intended for keying per-goroutine state (the matcher
// capture channel, the context scope stack); it is not a stable process-wide
// sequence number and must never be persisted or compared across processes.
func Current() int64 {
	bufp := stackBufPool.Get().(*[]byte)
	defer stackBufPool.Put(bufp)
	buf := *bufp

	for {
		n := runtimeStack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}
	*bufp = buf

	// header line looks like: "goroutine 123 [running]:"
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		panic("gid: unexpected runtime.Stack format")
	}
	rest := buf[len(prefix):]
	end := bytes.IndexByte(rest, ' ')
	if end < 0 {
		panic("gid: unexpected runtime.Stack format")
	}
	id, err := strconv.ParseInt(string(rest[:end]), 10, 64)
	if err != nil {
		panic("gid: unexpected runtime.Stack format: " + err.Error())
	}
	return id
}
