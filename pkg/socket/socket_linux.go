//go:build linux
// +build linux

package socket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

func platformInit() error {
	// a write to a reset peer must surface as EPIPE, not kill the process
	signal.Ignore(syscall.SIGPIPE)
	return nil
}

func platformTeardown() {
	signal.Reset(syscall.SIGPIPE)
}

// WouldBlock reports whether err means the operation should simply be retried
// on the next readiness report.
func WouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR)
}

// Listener is a bound, listening, non-blocking TCP/IPv4 socket.
type Listener struct {
	fd   int
	addr *net.TCPAddr
}

// Listen creates a listening socket on host:port. Port 0 picks a free port;
// Addr reports the one actually bound.
func Listen(host string, port int, backlog int) (*Listener, error) {
	if !initialized() {
		return nil, ErrNotInitialized
	}

	ip, err := resolveIPv4(host)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", host, err)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("setsockopt(SO_REUSEADDR): %w", err)
	}

	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s:%d: %w", ip, port, err)
	}

	if backlog <= 0 {
		backlog = unix.SOMAXCONN
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen: %w", err)
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("getsockname: %w", err)
	}

	return &Listener{fd: fd, addr: toTCPAddr(bound)}, nil
}

// Fd returns the listening descriptor.
func (l *Listener) Fd() int { return l.fd }

// Addr returns the bound address.
func (l *Listener) Addr() *net.TCPAddr { return l.addr }

// Accept takes one pending connection. The returned socket is already
// non-blocking. When nothing is pending the error satisfies WouldBlock.
func (l *Listener) Accept() (*Conn, error) {
	if l.fd < 0 {
		return nil, ErrClosed
	}

	nfd, sa, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return nil, err
	}

	return &Conn{fd: nfd, remote: toTCPAddr(sa)}, nil
}

// Close closes the listening socket.
func (l *Listener) Close() error {
	if l.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(l.fd)
	l.fd = -1
	return err
}

// Conn is an accepted, non-blocking client socket. It is not safe for
// concurrent use.
type Conn struct {
	fd     int
	remote *net.TCPAddr
}

// Fd returns the client descriptor, or -1 once closed.
func (c *Conn) Fd() int { return c.fd }

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr { return c.remote }

// Read performs a single read. An orderly shutdown by the peer is reported as
// io.EOF.
func (c *Conn) Read(b []byte) (int, error) {
	if c.fd < 0 {
		return 0, ErrClosed
	}
	n, err := unix.Read(c.fd, b)
	if err != nil {
		return 0, err
	}
	if n == 0 && len(b) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write performs a single write and may send fewer bytes than requested.
func (c *Conn) Write(b []byte) (int, error) {
	if c.fd < 0 {
		return 0, ErrClosed
	}
	n, err := unix.Write(c.fd, b)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the socket. A second call returns ErrClosed.
func (c *Conn) Close() error {
	if c.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(c.fd)
	c.fd = -1
	return err
}

func toTCPAddr(sa unix.Sockaddr) *net.TCPAddr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IPv4(a.Addr[0], a.Addr[1], a.Addr[2], a.Addr[3]), Port: a.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	default:
		return &net.TCPAddr{}
	}
}
