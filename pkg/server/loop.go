package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"dominicbreuker/framecho/pkg/log"
	"dominicbreuker/framecho/pkg/netpoll"
)

// Stats is a snapshot of event loop counters.
type Stats struct {
	Live         uint64
	Accepted     uint64
	Rejected     uint64
	Closed       uint64
	FramesEchoed uint64
}

type loopStats struct {
	live, accepted, rejected, closed, echoed atomic.Uint64
}

// poller is the readiness primitive driven by the loop. *netpoll.Poller
// implements it.
type poller interface {
	Set(fd int, in netpoll.Interest) error
	Remove(fd int) error
	Wait(timeout time.Duration) (int, error)
	Ready(fd int) netpoll.Interest
	Woken() bool
	Wake() error
}

// acceptor hands out new connections. *Listener implements it.
type acceptor interface {
	Fd() int
	Capacity() int
	Accept(live int) (*Connection, error)
}

// EventLoop multiplexes the listener and all live connections on a single
// goroutine. Only the loop adds connections to its set, removes them and
// closes them.
type EventLoop struct {
	listener acceptor
	poller   poller
	interval time.Duration
	size     int
	logger   *log.Logger

	conns []*Connection
	stats loopStats
}

// NewEventLoop creates a loop over l, waiting at most interval per
// iteration. Frames are size bytes.
func NewEventLoop(l acceptor, p poller, size int, interval time.Duration, logger *log.Logger) *EventLoop {
	return &EventLoop{
		listener: l,
		poller:   p,
		interval: interval,
		size:     size,
		logger:   logger,
	}
}

// Run iterates until ctx is cancelled, then closes every live connection and
// returns nil. A failing readiness wait is returned as an error.
func (el *EventLoop) Run(ctx context.Context) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			if err := el.poller.Wake(); err != nil {
				el.logger.ErrorMsg("Waking event loop: %s\n", err)
			}
		case <-stop:
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
		el.closeAll()
	}()

	for ctx.Err() == nil {
		done, err := el.iterate()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	return nil
}

// iterate runs one wait/dispatch/reap cycle. It reports true when the wait
// was interrupted by Wake.
func (el *EventLoop) iterate() (bool, error) {
	el.declareInterest()

	n, err := el.poller.Wait(el.interval)
	if err != nil {
		return false, fmt.Errorf("waiting for readiness: %w", err)
	}
	if el.poller.Woken() {
		return true, nil
	}
	el.logger.VerboseMsg("%d clients; %d sockets are ready", len(el.conns), n)
	if n == 0 && el.logger.Verbose() {
		st := el.Stats()
		el.logger.VerboseMsg("accepted %d, rejected %d, closed %d, echoed %d frames",
			st.Accepted, st.Rejected, st.Closed, st.FramesEchoed)
	}

	// connections accepted below are serviced from the next iteration
	tracked := len(el.conns)

	if el.poller.Ready(el.listener.Fd()).Has(netpoll.Read) {
		el.accept()
	}

	var dead []*Connection
	for _, c := range el.conns[:tracked] {
		ready := el.poller.Ready(c.Fd())
		died := false

		if ready.Has(netpoll.Read) {
			died = c.DoRead()
		}
		if ready.Has(netpoll.Write) {
			before := c.Echoed()
			died = c.DoWrite() || died
			el.stats.echoed.Add(uint64(c.Echoed() - before))
		}

		if died {
			dead = append(dead, c)
		}
	}

	el.evict(dead)
	return false, nil
}

// declareInterest re-declares what every socket is waited on for.
// Connections that cannot be registered are dropped.
func (el *EventLoop) declareInterest() {
	if err := el.poller.Set(el.listener.Fd(), netpoll.Read); err != nil {
		el.logger.ErrorMsg("Watching listener: %s\n", err)
	}

	var failed []*Connection
	for _, c := range el.conns {
		var in netpoll.Interest
		if c.WantRead() < el.size {
			in |= netpoll.Read
		}
		if c.WantWrite() > 0 {
			in |= netpoll.Write
		}

		if err := el.poller.Set(c.Fd(), in); err != nil {
			el.logger.ErrorMsg("Watching %s: %s\n", c, err)
			failed = append(failed, c)
		}
	}

	el.evict(failed)
}

func (el *EventLoop) accept() {
	c, err := el.listener.Accept(len(el.conns))
	switch {
	case errors.Is(err, ErrNoPending):
		return
	case errors.Is(err, ErrServerFull):
		el.stats.rejected.Add(1)
		return
	case err != nil:
		el.logger.ErrorMsg("Accepting new connection: %s\n", err)
		return
	}

	el.conns = append(el.conns, c)
	el.stats.accepted.Add(1)
	el.stats.live.Store(uint64(len(el.conns)))
	el.logger.InfoMsg("New connection from %s (%d/%d)\n", c, len(el.conns), el.listener.Capacity())
}

// evict tears down the given connections and removes them from the set.
func (el *EventLoop) evict(dead []*Connection) {
	if len(dead) == 0 {
		return
	}

	gone := make(map[*Connection]bool, len(dead))
	for _, c := range dead {
		if gone[c] {
			continue
		}
		gone[c] = true
		el.teardown(c)
	}

	alive := el.conns[:0]
	for _, c := range el.conns {
		if !gone[c] {
			alive = append(alive, c)
		}
	}
	clear(el.conns[len(alive):])
	el.conns = alive
	el.stats.live.Store(uint64(len(el.conns)))
}

func (el *EventLoop) teardown(c *Connection) {
	if err := el.poller.Remove(c.Fd()); err != nil {
		el.logger.VerboseMsg("%s: %s", c, err)
	}
	if err := c.Close(); err != nil {
		el.logger.ErrorMsg("Closing %s: %s\n", c, err)
	}
	el.stats.closed.Add(1)
	el.logger.InfoMsg("Connection from %s closed\n", c)
}

func (el *EventLoop) closeAll() {
	for _, c := range el.conns {
		el.teardown(c)
	}
	el.conns = nil
	el.stats.live.Store(0)
}

// Live returns the number of live connections. It must only be called from
// the loop goroutine or after Run returned.
func (el *EventLoop) Live() int {
	return len(el.conns)
}

// Stats returns a snapshot of the loop counters. Safe for concurrent use.
func (el *EventLoop) Stats() Stats {
	return Stats{
		Live:         el.stats.live.Load(),
		Accepted:     el.stats.accepted.Load(),
		Rejected:     el.stats.rejected.Load(),
		Closed:       el.stats.closed.Load(),
		FramesEchoed: el.stats.echoed.Load(),
	}
}
