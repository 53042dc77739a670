// Package frame defines the fixed-size frames exchanged between framecho
// clients and servers. Frames carry no length prefix or delimiter; bytes are
// grouped purely by size.
package frame

import (
	"bytes"
	"fmt"
)

// DefaultSize is the frame size used when none is configured.
const DefaultSize = 40

// MaxSize bounds the configurable frame size.
const MaxSize = 64 * 1024

// quitPrefix marks a frame as a termination request.
var quitPrefix = []byte("quit")

// IsQuit reports whether b is a termination request.
// Frames shorter than the prefix can never be one.
func IsQuit(b []byte) bool {
	return bytes.HasPrefix(b, quitPrefix)
}

// Pad copies payload into a new frame of the given size, filling the
// remainder with spaces.
func Pad(payload []byte, size int) ([]byte, error) {
	if len(payload) > size {
		return nil, fmt.Errorf("payload of %d bytes exceeds frame size %d", len(payload), size)
	}

	f := bytes.Repeat([]byte{' '}, size)
	copy(f, payload)
	return f, nil
}

// Quit returns a termination frame of the given size.
func Quit(size int) []byte {
	f, _ := Pad(quitPrefix[:min(len(quitPrefix), size)], size)
	return f
}

// Split cuts f into n chunks of roughly equal length. The last chunk takes
// the remainder. n is clamped to [1, len(f)].
func Split(f []byte, n int) [][]byte {
	if n < 1 {
		n = 1
	}
	if n > len(f) {
		n = len(f)
	}
	if n <= 1 {
		return [][]byte{f}
	}

	step := len(f) / n
	out := make([][]byte, 0, n)
	for i := 0; i < n-1; i++ {
		out = append(out, f[i*step:(i+1)*step])
	}
	return append(out, f[(n-1)*step:])
}
