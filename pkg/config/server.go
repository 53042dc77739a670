package config

import (
	"fmt"
	"time"

	"dominicbreuker/framecho/pkg/format"
	"dominicbreuker/framecho/pkg/log"
)

// Server configures the echo server.
type Server struct {
	Host           string
	Port           int // 0 picks a free port
	MessageSize    int
	MaxConnections int
	PollInterval   time.Duration
	RejectMessage  string // sent to over-capacity clients before closing, if set
	Verbose        bool
	Logger         *log.Logger
}

// Validate checks the server settings.
func (c *Server) Validate() []error {
	var errors []error

	if err := validatePort(c.Port, true); err != nil {
		errors = append(errors, err)
	}

	if err := validateMessageSize(c.MessageSize); err != nil {
		errors = append(errors, err)
	}

	if c.MaxConnections < 1 {
		errors = append(errors, fmt.Errorf("'--max-conns' must be at least 1"))
	}

	if c.PollInterval <= 0 {
		errors = append(errors, fmt.Errorf("'--poll-interval' must be positive"))
	}

	return errors
}

// Addr returns host:port.
func (c *Server) Addr() string {
	return format.Addr(c.Host, c.Port)
}
