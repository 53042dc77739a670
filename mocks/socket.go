package mocks

import (
	"bytes"
	"net"
	"sync"
	"syscall"
)

// MockSocket is a scripted non-blocking socket. Each Read returns the next
// scripted step; once the script is exhausted Read reports EAGAIN. Writes
// are collected and may be capped to simulate short writes.
type MockSocket struct {
	mu sync.Mutex

	fd     int
	remote net.Addr
	reads  []ReadStep

	// MaxWrite caps the bytes accepted per Write. Zero means unlimited.
	MaxWrite int
	// WriteErr, when set, is returned by every Write.
	WriteErr error
	// CloseErr, when set, is returned by Close.
	CloseErr error

	written   bytes.Buffer
	readCalls int
	writes    int
	closes    int
}

// ReadStep is one scripted Read result. A nil Data with a nil Err reads
// zero bytes.
type ReadStep struct {
	Data []byte
	Err  error
}

// NewMockSocket creates a MockSocket that reports fd and a loopback peer.
func NewMockSocket(fd int, reads ...ReadStep) *MockSocket {
	return &MockSocket{
		fd:     fd,
		remote: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000 + fd},
		reads:  reads,
	}
}

// Data is a ReadStep delivering s.
func Data(s string) ReadStep { return ReadStep{Data: []byte(s)} }

// Fail is a ReadStep returning err.
func Fail(err error) ReadStep { return ReadStep{Err: err} }

// Feed appends read steps to the script.
func (m *MockSocket) Feed(steps ...ReadStep) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, steps...)
}

// Read implements io.Reader. Data that does not fit into b stays at the
// head of the script.
func (m *MockSocket) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCalls++
	if len(m.reads) == 0 {
		return 0, syscall.EAGAIN
	}

	step := &m.reads[0]
	if step.Err != nil {
		m.reads = m.reads[1:]
		return 0, step.Err
	}

	n := copy(b, step.Data)
	step.Data = step.Data[n:]
	if len(step.Data) == 0 {
		m.reads = m.reads[1:]
	}
	return n, nil
}

// Write implements io.Writer.
func (m *MockSocket) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}

	n := len(b)
	if m.MaxWrite > 0 && n > m.MaxWrite {
		n = m.MaxWrite
	}
	m.written.Write(b[:n])
	return n, nil
}

// Close counts calls.
func (m *MockSocket) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return m.CloseErr
}

// Fd returns the descriptor given to NewMockSocket.
func (m *MockSocket) Fd() int { return m.fd }

// RemoteAddr returns a fake loopback address.
func (m *MockSocket) RemoteAddr() net.Addr { return m.remote }

// Written returns everything accepted by Write so far.
func (m *MockSocket) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written.String()
}

// Reads returns the number of Read calls.
func (m *MockSocket) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCalls
}

// Writes returns the number of Write calls.
func (m *MockSocket) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Closes returns the number of Close calls.
func (m *MockSocket) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}
