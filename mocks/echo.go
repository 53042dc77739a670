package mocks

import (
	"bytes"
	"io"
	"net"
	"sync"
)

// EchoPeer is a minimal blocking frame echo server on a loopback port, used
// to test clients without the event loop. Each connection gets its own
// goroutine.
type EchoPeer struct {
	size int
	l    net.Listener

	corrupt bool

	mu    sync.Mutex
	conns []net.Conn
	wg    sync.WaitGroup
}

// NewEchoPeer listens on 127.0.0.1 with a free port. With corrupt set, the
// last byte of every echoed frame is flipped.
func NewEchoPeer(size int, corrupt bool) (*EchoPeer, error) {
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	p := &EchoPeer{size: size, l: l, corrupt: corrupt}
	p.wg.Add(1)
	go p.acceptLoop()
	return p, nil
}

// Addr returns the listening address.
func (p *EchoPeer) Addr() *net.TCPAddr {
	return p.l.Addr().(*net.TCPAddr)
}

func (p *EchoPeer) acceptLoop() {
	defer p.wg.Done()
	for {
		conn, err := p.l.Accept()
		if err != nil {
			return
		}

		p.mu.Lock()
		p.conns = append(p.conns, conn)
		p.mu.Unlock()

		p.wg.Add(1)
		go p.serve(conn)
	}
}

func (p *EchoPeer) serve(conn net.Conn) {
	defer p.wg.Done()
	defer conn.Close()

	buf := make([]byte, p.size)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		if bytes.HasPrefix(buf, []byte("quit")) {
			return
		}
		if p.corrupt {
			buf[len(buf)-1] ^= 0xff
		}
		if _, err := conn.Write(buf); err != nil {
			return
		}
	}
}

// Close stops accepting, closes all connections and waits for their
// goroutines.
func (p *EchoPeer) Close() error {
	err := p.l.Close()

	p.mu.Lock()
	for _, c := range p.conns {
		c.Close()
	}
	p.mu.Unlock()

	p.wg.Wait()
	return err
}
