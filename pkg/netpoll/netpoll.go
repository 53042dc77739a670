// Package netpoll is the readiness primitive behind the event loop: callers
// declare per-descriptor read/write interest, then block until some of those
// descriptors are ready, a timeout expires or another goroutine calls Wake.
package netpoll

import (
	"errors"
	"time"
)

// ErrUnsupported is returned on platforms without a poller implementation.
var ErrUnsupported = errors.New("netpoll: this platform is not supported")

// Interest is a set of readiness conditions.
type Interest uint8

const (
	// Read is readiness to read, or to accept on a listening socket.
	Read Interest = 1 << iota
	// Write is readiness to write.
	Write
)

// Has reports whether all of want is in i.
func (i Interest) Has(want Interest) bool {
	return want != 0 && i&want == want
}

func (i Interest) String() string {
	switch i {
	case 0:
		return "none"
	case Read:
		return "r"
	case Write:
		return "w"
	case Read | Write:
		return "rw"
	default:
		return "invalid"
	}
}

// timeoutMillis converts d to the millisecond argument of a wait call,
// rounding up so short timeouts do not turn into busy polling.
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}
