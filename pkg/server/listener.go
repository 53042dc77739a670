package server

import (
	"errors"
	"fmt"
	"net"

	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/log"
	"dominicbreuker/framecho/pkg/socket"
)

// ErrServerFull is returned by Accept when a client was turned away because
// the live connection count reached the limit.
var ErrServerFull = errors.New("server full")

// ErrNoPending is returned by Accept when no connection was waiting.
var ErrNoPending = errors.New("no pending connection")

// Listener owns the server socket and turns accepted sockets into
// Connections while capacity allows.
type Listener struct {
	sock *socket.Listener

	maxConns int
	size     int
	reject   []byte
	logger   *log.Logger
}

// NewListener binds and listens on the configured address. The socket
// subsystem must be initialized.
func NewListener(cfg *config.Server) (*Listener, error) {
	sock, err := socket.Listen(cfg.Host, cfg.Port, 0)
	if err != nil {
		return nil, fmt.Errorf("listen(tcp, %s): %w", cfg.Addr(), err)
	}

	l := &Listener{
		sock:     sock,
		maxConns: cfg.MaxConnections,
		size:     cfg.MessageSize,
		logger:   cfg.Logger,
	}
	if cfg.RejectMessage != "" {
		l.reject = []byte(cfg.RejectMessage)
	}
	return l, nil
}

// Fd returns the listening descriptor.
func (l *Listener) Fd() int { return l.sock.Fd() }

// Addr returns the bound address.
func (l *Listener) Addr() *net.TCPAddr { return l.sock.Addr() }

// Accept accepts one client given the current number of live connections.
// Over capacity, the client socket is closed immediately and ErrServerFull
// returned. Other errors are not fatal to the server.
func (l *Listener) Accept(live int) (*Connection, error) {
	sock, err := l.sock.Accept()
	if err != nil {
		if socket.WouldBlock(err) {
			return nil, ErrNoPending
		}
		return nil, fmt.Errorf("accept: %w", err)
	}

	if live >= l.maxConns {
		return nil, l.turnAway(sock, live)
	}

	return NewConnection(sock, l.size, l.logger), nil
}

// turnAway sends the reject message, if any, and closes sock. The client
// counts as rejected even if closing fails.
func (l *Listener) turnAway(sock Socket, live int) error {
	l.logger.InfoMsg("Rejecting %s: server full (%d/%d)\n", sock.RemoteAddr(), live, l.maxConns)

	if len(l.reject) > 0 {
		// best effort, the socket is non-blocking
		if _, err := sock.Write(l.reject); err != nil {
			l.logger.VerboseMsg("%s: sending reject message: %s", sock.RemoteAddr(), err)
		}
	}
	if err := sock.Close(); err != nil {
		l.logger.ErrorMsg("Closing rejected client %s: %s\n", sock.RemoteAddr(), err)
	}
	return ErrServerFull
}

// Capacity returns the maximum number of live connections.
func (l *Listener) Capacity() int { return l.maxConns }

// Close closes the server socket.
func (l *Listener) Close() error {
	return l.sock.Close()
}
