package log

import (
	"fmt"
	"net"
	"os"
	"sync"
)

// transcriptConn wraps a net.Conn and records every chunk read from or
// written to it, one quoted line per chunk, prefixed with its direction.
type transcriptConn struct {
	net.Conn

	mu      sync.Mutex
	logFile *os.File
}

func (tc *transcriptConn) record(dir string, b []byte) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	_, err := fmt.Fprintf(tc.logFile, "%s %q\n", dir, b)
	return err
}

func (tc *transcriptConn) Read(b []byte) (int, error) {
	n, err := tc.Conn.Read(b)
	if n > 0 {
		if lerr := tc.record("<<", b[:n]); lerr != nil {
			return n, fmt.Errorf("recording read: %w", lerr)
		}
	}
	return n, err
}

func (tc *transcriptConn) Write(b []byte) (int, error) {
	n, err := tc.Conn.Write(b)
	if n > 0 {
		if lerr := tc.record(">>", b[:n]); lerr != nil {
			return n, fmt.Errorf("recording write: %w", lerr)
		}
	}
	return n, err
}

// Close closes both the connection and the transcript file.
func (tc *transcriptConn) Close() error {
	err := tc.Conn.Close()
	if ferr := tc.logFile.Close(); err == nil {
		err = ferr
	}
	return err
}

// NewLoggedConn wraps a network connection so that all data read from and
// written to it is appended to the transcript file at logFilePath.
func NewLoggedConn(conn net.Conn, logFilePath string) (net.Conn, error) {
	logFile, err := os.OpenFile(logFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening transcript %s: %w", logFilePath, err)
	}

	return &transcriptConn{Conn: conn, logFile: logFile}, nil
}
