package logging

import (
	"bytes"
	"runtime"
	"strconv"
)

// noGoroutine is the sentinel identifier used when the goroutine id cannot be
// parsed from the stack header. Task and name bindings degrade to a shared
// table entry under this key rather than failing.
const noGoroutine uint64 = 0

// goroutineID extracts the numeric id from the runtime.Stack header line,
// which reads "goroutine <id> [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	end := bytes.IndexByte(header, ' ')
	if end <= 0 {
		return noGoroutine
	}
	id, err := strconv.ParseUint(string(header[:end]), 10, 64)
	if err != nil {
		return noGoroutine
	}
	return id
}
