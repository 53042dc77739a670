// Package server implements the fixed-frame echo server: a single-goroutine
// event loop multiplexing a listener and a bounded set of client connections.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/netpoll"
)

// ErrNotListening is returned by Serve when Listen was not called first.
var ErrNotListening = errors.New("server is not listening")

// Server ...
type Server struct {
	cfg *config.Server

	listener *Listener
	poller   *netpoll.Poller
	loop     *EventLoop

	closeOnce sync.Once
	closeErr  error
}

// New validates cfg and returns a Server that is not yet listening.
func New(cfg *config.Server) (*Server, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid server config: %w", errors.Join(errs...))
	}

	return &Server{
		cfg: cfg,
	}, nil
}

// Listen binds the server socket and creates the poller. The socket
// subsystem must be initialized.
func (s *Server) Listen() error {
	l, err := NewListener(s.cfg)
	if err != nil {
		return err
	}

	p, err := netpoll.New()
	if err != nil {
		l.Close()
		return fmt.Errorf("netpoll.New(): %w", err)
	}

	s.listener = l
	s.poller = p
	s.loop = NewEventLoop(l, p, s.cfg.MessageSize, s.cfg.PollInterval, s.cfg.Logger)
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() *net.TCPAddr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the event loop until ctx is cancelled, then closes the server.
func (s *Server) Serve(ctx context.Context) error {
	if s.loop == nil {
		return ErrNotListening
	}
	defer s.Close()

	s.cfg.Logger.InfoMsg("Listening on %s (max %d clients, %d byte frames)\n",
		s.listener.Addr(), s.cfg.MaxConnections, s.cfg.MessageSize)

	if err := s.loop.Run(ctx); err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

// Stats returns the event loop counters.
func (s *Server) Stats() Stats {
	if s.loop == nil {
		return Stats{}
	}
	return s.loop.Stats()
}

// Close releases the poller and the server socket. It is safe to call more
// than once and must not be called while Serve is running.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.poller != nil {
			if err := s.poller.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing poller: %w", err))
			}
		}
		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing listener: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
