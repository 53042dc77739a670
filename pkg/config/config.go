// Package config holds the validated settings of the framecho server and
// client commands.
package config

import (
	"fmt"
	"time"

	"dominicbreuker/framecho/pkg/frame"
)

// DefaultHost is the interface the server binds to by default.
const DefaultHost = "127.0.0.1"

// DefaultPort is the TCP port used when none is given.
const DefaultPort = 5555

// DefaultMaxConnections is the number of clients served at once.
const DefaultMaxConnections = 2

// DefaultPollInterval is the upper bound of a single readiness wait.
const DefaultPollInterval = 2500 * time.Millisecond

// DefaultTimeout bounds client dials and echo waits.
const DefaultTimeout = 10 * time.Second

func validateMessageSize(size int) error {
	if size < 1 || size > frame.MaxSize {
		return fmt.Errorf("'--size' must be in [1, %d]", frame.MaxSize)
	}
	return nil
}
