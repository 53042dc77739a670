package config

import (
	"fmt"
	"time"

	"dominicbreuker/framecho/pkg/format"
	"dominicbreuker/framecho/pkg/log"
)

// Client configures the echo client.
type Client struct {
	Host        string
	Port        int
	MessageSize int
	Chunks      int // number of writes each frame is split into
	Timeout     time.Duration
	LogFile     string
	Verbose     bool
	Logger      *log.Logger
	Deps        *Dependencies
}

// Validate checks the client settings.
func (c *Client) Validate() []error {
	var errors []error

	if c.Host == "" {
		errors = append(errors, fmt.Errorf("'--host' must not be empty"))
	}

	if err := validatePort(c.Port, false); err != nil {
		errors = append(errors, err)
	}

	if err := validateMessageSize(c.MessageSize); err != nil {
		errors = append(errors, err)
	} else if c.Chunks < 1 || c.Chunks > c.MessageSize {
		errors = append(errors, fmt.Errorf("'--chunks' must be in [1, %d]", c.MessageSize))
	}

	if c.Timeout < 0 {
		errors = append(errors, fmt.Errorf("'--timeout' must not be negative"))
	}

	return errors
}

// Addr returns host:port.
func (c *Client) Addr() string {
	return format.Addr(c.Host, c.Port)
}
