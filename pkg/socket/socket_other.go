//go:build !linux
// +build !linux

package socket

import "net"

func platformInit() error { return nil }

func platformTeardown() {}

// WouldBlock always reports false on unsupported platforms.
func WouldBlock(err error) bool { return false }

// Listener is unavailable on this platform.
type Listener struct{}

// Listen always fails with ErrUnsupported.
func Listen(host string, port int, backlog int) (*Listener, error) {
	return nil, ErrUnsupported
}

func (l *Listener) Fd() int                { return -1 }
func (l *Listener) Addr() *net.TCPAddr     { return nil }
func (l *Listener) Accept() (*Conn, error) { return nil, ErrUnsupported }
func (l *Listener) Close() error           { return ErrUnsupported }

// Conn is unavailable on this platform.
type Conn struct{}

func (c *Conn) Fd() int                     { return -1 }
func (c *Conn) RemoteAddr() net.Addr        { return nil }
func (c *Conn) Read(b []byte) (int, error)  { return 0, ErrUnsupported }
func (c *Conn) Write(b []byte) (int, error) { return 0, ErrUnsupported }
func (c *Conn) Close() error                { return ErrUnsupported }
