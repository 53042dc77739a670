//go:build linux
// +build linux

package netpoll

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const maxEvents = 128

const (
	readEvents  = unix.EPOLLIN | unix.EPOLLRDHUP
	writeEvents = unix.EPOLLOUT
	// reported by the kernel regardless of the registered mask
	errorEvents = unix.EPOLLERR | unix.EPOLLHUP
)

// Poller is a level-triggered epoll instance plus an eventfd used by Wake.
// All methods except Wake must be called from a single goroutine.
type Poller struct {
	epfd   int
	wakeFd int

	registered map[int]Interest
	ready      map[int]Interest
	woken      bool
	events     []unix.EpollEvent
}

// New creates a Poller.
func New() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}

	wakeFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFd, &ev); err != nil {
		unix.Close(wakeFd)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add eventfd: %w", err)
	}

	return &Poller{
		epfd:       epfd,
		wakeFd:     wakeFd,
		registered: make(map[int]Interest),
		ready:      make(map[int]Interest),
		events:     make([]unix.EpollEvent, maxEvents),
	}, nil
}

// Set declares the interest for fd, registering it on first use. Calls that
// do not change the interest cost no system call.
func (p *Poller) Set(fd int, in Interest) error {
	prev, ok := p.registered[fd]
	if ok && prev == in {
		return nil
	}

	ev := unix.EpollEvent{Fd: int32(fd)}
	if in.Has(Read) {
		ev.Events |= readEvents
	}
	if in.Has(Write) {
		ev.Events |= writeEvents
	}

	op := unix.EPOLL_CTL_MOD
	if !ok {
		op = unix.EPOLL_CTL_ADD
	}
	if err := unix.EpollCtl(p.epfd, op, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl fd %d: %w", fd, err)
	}

	p.registered[fd] = in
	return nil
}

// Remove stops watching fd. It must be called before fd is closed.
func (p *Poller) Remove(fd int) error {
	if _, ok := p.registered[fd]; !ok {
		return nil
	}
	delete(p.registered, fd)
	delete(p.ready, fd)

	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del fd %d: %w", fd, err)
	}
	return nil
}

// Wait blocks for at most timeout (negative means forever) and returns the
// number of descriptors ready for something they declared interest in.
// Interrupted waits count as timeouts.
func (p *Poller) Wait(timeout time.Duration) (int, error) {
	clear(p.ready)
	p.woken = false

	n, err := unix.EpollWait(p.epfd, p.events, timeoutMillis(timeout))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	for i := 0; i < n; i++ {
		ev := p.events[i]
		fd := int(ev.Fd)

		if fd == p.wakeFd {
			p.drainWake()
			continue
		}

		in := p.registered[fd]
		var r Interest
		if in.Has(Read) && ev.Events&(readEvents|errorEvents) != 0 {
			r |= Read
		}
		if in.Has(Write) && ev.Events&(writeEvents|errorEvents) != 0 {
			r |= Write
		}
		if r != 0 {
			p.ready[fd] = r
		}
	}

	return len(p.ready), nil
}

// Ready returns the readiness of fd reported by the last Wait.
func (p *Poller) Ready(fd int) Interest {
	return p.ready[fd]
}

// Woken reports whether the last Wait returned because of Wake.
func (p *Poller) Woken() bool {
	return p.woken
}

// Wake interrupts a concurrent or the next Wait. Safe for use from any
// goroutine while the Poller is open.
func (p *Poller) Wake() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	if _, err := unix.Write(p.wakeFd, buf[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
		return fmt.Errorf("eventfd write: %w", err)
	}
	return nil
}

func (p *Poller) drainWake() {
	var buf [8]byte
	unix.Read(p.wakeFd, buf[:])
	p.woken = true
}

// Close releases the epoll instance and the eventfd. Registered descriptors
// are not closed.
func (p *Poller) Close() error {
	err := unix.Close(p.epfd)
	if werr := unix.Close(p.wakeFd); err == nil {
		err = werr
	}
	p.registered = nil
	return err
}
