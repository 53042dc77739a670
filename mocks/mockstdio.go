// Package mocks provides fakes for testing framecho without a terminal or
// a real peer.
package mocks

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MockStdio stands in for a user at a terminal: lines are typed into stdin
// through a pipe and everything the program prints is collected.
type MockStdio struct {
	stdinReader *io.PipeReader
	stdinWriter *io.PipeWriter

	mu  sync.Mutex
	out bytes.Buffer
}

// NewMockStdio creates a MockStdio with an open stdin.
func NewMockStdio() *MockStdio {
	r, w := io.Pipe()
	return &MockStdio{stdinReader: r, stdinWriter: w}
}

// TypeLine writes line and a newline to stdin. It blocks until the program
// reads it.
func (m *MockStdio) TypeLine(line string) error {
	_, err := m.stdinWriter.Write([]byte(line + "\n"))
	return err
}

// CloseStdin signals end of input.
func (m *MockStdio) CloseStdin() error {
	return m.stdinWriter.Close()
}

// GetStdin returns the reader side of stdin.
func (m *MockStdio) GetStdin() io.Reader {
	return m.stdinReader
}

// GetStdout returns a writer collecting output.
func (m *MockStdio) GetStdout() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.out.Write(p)
	})
}

// Output returns everything written to stdout so far.
func (m *MockStdio) Output() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.out.String()
}

// WaitForOutput polls until stdout contains expected.
func (m *MockStdio) WaitForOutput(expected string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		out := m.Output()
		if strings.Contains(out, expected) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for output %q, got: %q", expected, out)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
