// Package socket wraps raw, non-blocking TCP/IPv4 sockets for use with a
// readiness poller. The package keeps process-wide state: Init must be called
// once before any listener is created and Teardown once after the last socket
// is closed.
package socket

import (
	"errors"
	"net"
	"sync"
)

// ErrNotInitialized is returned when sockets are used before Init.
var ErrNotInitialized = errors.New("socket subsystem not initialized")

// ErrAlreadyInitialized is returned by a second Init without Teardown.
var ErrAlreadyInitialized = errors.New("socket subsystem already initialized")

// ErrUnsupported is returned on platforms without raw socket support.
var ErrUnsupported = errors.New("raw sockets are not supported on this platform")

// ErrClosed is returned when operating on a closed socket.
var ErrClosed = errors.New("use of closed socket")

var subsystem struct {
	mu    sync.Mutex
	ready bool
}

// Init prepares the process for raw socket I/O.
func Init() error {
	subsystem.mu.Lock()
	defer subsystem.mu.Unlock()

	if subsystem.ready {
		return ErrAlreadyInitialized
	}
	if err := platformInit(); err != nil {
		return err
	}
	subsystem.ready = true
	return nil
}

// Teardown undoes Init.
func Teardown() error {
	subsystem.mu.Lock()
	defer subsystem.mu.Unlock()

	if !subsystem.ready {
		return ErrNotInitialized
	}
	platformTeardown()
	subsystem.ready = false
	return nil
}

func initialized() bool {
	subsystem.mu.Lock()
	defer subsystem.mu.Unlock()
	return subsystem.ready
}

// resolveIPv4 maps host to an IPv4 address. An empty host or "*" means all
// interfaces.
func resolveIPv4(host string) (net.IP, error) {
	if host == "" || host == "*" {
		return net.IPv4zero.To4(), nil
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, errors.New("not an IPv4 address: " + host)
	}

	addr, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		return nil, err
	}
	return addr.IP.To4(), nil
}
