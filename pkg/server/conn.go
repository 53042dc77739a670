package server

import (
	"errors"
	"io"
	"net"

	"dominicbreuker/framecho/pkg/frame"
	"dominicbreuker/framecho/pkg/log"
	"dominicbreuker/framecho/pkg/socket"
)

// Socket is an accepted, non-blocking client socket. Read and Write perform
// exactly one system call each and report a would-block condition as an
// error satisfying socket.WouldBlock.
type Socket interface {
	io.ReadWriteCloser
	Fd() int
	RemoteAddr() net.Addr
}

// Connection is the echo state machine of one client. It owns its socket
// exclusively and is driven by the event loop: the loop asks WantRead and
// WantWrite to build its interest set and calls DoRead or DoWrite when the
// socket is ready. Either returns true when the connection is dead; the loop
// then closes it.
//
// A complete inbound frame is turned into exactly one outbound frame. If the
// previous echo is still being written, the new frame stays in the read
// buffer, which removes read interest until the write buffer drains.
type Connection struct {
	sock Socket
	name string

	in  frameBuffer
	out frameBuffer

	reading bool
	writing bool

	echoed int
	logger *log.Logger
}

// NewConnection wraps sock, taking ownership of it.
func NewConnection(sock Socket, size int, logger *log.Logger) *Connection {
	name := "unknown"
	if addr := sock.RemoteAddr(); addr != nil {
		name = addr.String()
	}

	return &Connection{
		sock:    sock,
		name:    name,
		in:      newFrameBuffer(size),
		out:     newFrameBuffer(size),
		reading: true,
		logger:  logger,
	}
}

// Fd returns the socket descriptor.
func (c *Connection) Fd() int { return c.sock.Fd() }

func (c *Connection) String() string { return c.name }

// WantRead returns the number of buffered inbound bytes. The connection
// wants to read while this is below the frame size.
func (c *Connection) WantRead() int { return c.in.Len() }

// WantWrite returns the number of outbound bytes pending. The connection
// wants to write while this is positive.
func (c *Connection) WantWrite() int { return c.out.Len() }

// Reading reports whether a frame is partially received.
func (c *Connection) Reading() bool { return c.reading }

// Writing reports whether an echo is partially sent.
func (c *Connection) Writing() bool { return c.writing }

// Echoed returns the number of frames fully written back.
func (c *Connection) Echoed() int { return c.echoed }

// DoRead reads as much as fits into the read buffer. It reports the
// connection dead on EOF, on a socket error and on a quit frame.
func (c *Connection) DoRead() (died bool) {
	if c.in.Full() {
		return false
	}
	c.reading = true

	n, err := c.sock.Read(c.in.Space())
	if err != nil {
		if socket.WouldBlock(err) {
			return false
		}
		if errors.Is(err, io.EOF) {
			c.logger.VerboseMsg("%s: closed by peer", c)
		} else {
			c.logger.VerboseMsg("%s: read: %s", c, err)
		}
		return true
	}
	if n == 0 {
		c.logger.VerboseMsg("%s: closed by peer", c)
		return true
	}

	c.in.Fill(n)
	if !c.in.Full() {
		return false
	}

	c.logger.VerboseMsg("%s: received frame %q", c, c.in.Bytes())
	return c.handleFrame()
}

// handleFrame acts on the complete frame in the read buffer. It runs once
// when the frame completes and again if the frame was held back.
func (c *Connection) handleFrame() (died bool) {
	msg := c.in.Bytes()

	if frame.IsQuit(msg) {
		c.logger.InfoMsg("Client %s asked to quit\n", c)
		return true
	}

	if c.out.Len() > 0 {
		return false
	}

	c.out.Load(msg)
	c.in.Reset()
	c.reading = false
	return false
}

// DoWrite sends as much of the pending echo as the socket accepts. A short
// write keeps the unsent tail at the front of the buffer for the next call.
func (c *Connection) DoWrite() (died bool) {
	if c.out.Len() == 0 {
		return false
	}
	c.writing = true

	n, err := c.sock.Write(c.out.Bytes())
	if err != nil {
		if socket.WouldBlock(err) {
			return false
		}
		c.logger.VerboseMsg("%s: write: %s", c, err)
		return true
	}

	c.out.Consume(n)
	if c.out.Len() > 0 {
		c.logger.VerboseMsg("%s: short write, %d bytes left", c, c.out.Len())
		return false
	}

	c.writing = false
	c.echoed++

	if c.in.Full() {
		return c.handleFrame()
	}
	return false
}

// Close closes the socket.
func (c *Connection) Close() error {
	return c.sock.Close()
}
