//go:build !linux
// +build !linux

package netpoll

import "time"

// Poller is unavailable on this platform.
type Poller struct{}

// New always fails with ErrUnsupported.
func New() (*Poller, error) {
	return nil, ErrUnsupported
}

func (p *Poller) Set(fd int, in Interest) error           { return ErrUnsupported }
func (p *Poller) Remove(fd int) error                     { return ErrUnsupported }
func (p *Poller) Wait(timeout time.Duration) (int, error) { return 0, ErrUnsupported }
func (p *Poller) Ready(fd int) Interest                   { return 0 }
func (p *Poller) Woken() bool                             { return false }
func (p *Poller) Wake() error                             { return ErrUnsupported }
func (p *Poller) Close() error                            { return ErrUnsupported }
