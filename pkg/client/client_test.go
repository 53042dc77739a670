package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dominicbreuker/framecho/mocks"
	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/frame"
)

const testSize = 16

func newPeer(t *testing.T, corrupt bool) *mocks.EchoPeer {
	t.Helper()

	p, err := mocks.NewEchoPeer(testSize, corrupt)
	if err != nil {
		t.Fatalf("NewEchoPeer() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func newConfig(port, chunks int, stdin string, stdout io.Writer) *config.Client {
	return &config.Client{
		Host:        "127.0.0.1",
		Port:        port,
		MessageSize: testSize,
		Chunks:      chunks,
		Timeout:     5 * time.Second,
		Deps: &config.Dependencies{
			Stdin:  func() io.Reader { return strings.NewReader(stdin) },
			Stdout: func() io.Writer { return stdout },
		},
	}
}

func connect(t *testing.T, cfg *config.Client) *Client {
	t.Helper()

	c := New(context.Background(), cfg)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConnect_DialError(t *testing.T) {
	t.Parallel()

	dialErr := errors.New("connection refused")
	cfg := newConfig(5555, 1, "", io.Discard)
	cfg.Deps.TCPDialer = func(ctx context.Context, addr string) (net.Conn, error) {
		return nil, dialErr
	}

	c := New(context.Background(), cfg)
	err := c.Connect()
	if !errors.Is(err, dialErr) {
		t.Fatalf("Connect() = %v, want wrapped dial error", err)
	}
	if !strings.Contains(err.Error(), "127.0.0.1:5555") {
		t.Errorf("error %q does not name the address", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() without connection = %v", err)
	}
}

func TestSendReceive(t *testing.T) {
	t.Parallel()

	for _, chunks := range []int{1, 3, testSize} {
		chunks := chunks
		t.Run(fmt.Sprintf("chunks=%d", chunks), func(t *testing.T) {
			t.Parallel()

			p := newPeer(t, false)
			c := connect(t, newConfig(p.Addr().Port, chunks, "", io.Discard))

			for _, msg := range []string{"hello", "world"} {
				if err := c.Send([]byte(msg)); err != nil {
					t.Fatalf("Send(%q) error = %v", msg, err)
				}
			}
			if c.Pending() != 2 {
				t.Errorf("Pending() = %d, want 2", c.Pending())
			}

			for _, msg := range []string{"hello", "world"} {
				got, err := c.Receive()
				if err != nil {
					t.Fatalf("Receive() error = %v", err)
				}
				if want, _ := frame.Pad([]byte(msg), testSize); !bytes.Equal(got, want) {
					t.Errorf("Receive() = %q, want %q", got, want)
				}
			}

			if c.Verified() != 2 || c.Pending() != 0 {
				t.Errorf("Verified() = %d, Pending() = %d", c.Verified(), c.Pending())
			}
			if _, err := c.Receive(); !errors.Is(err, ErrNothingPending) {
				t.Errorf("Receive() with nothing pending = %v", err)
			}
		})
	}
}

func TestReceive_Mismatch(t *testing.T) {
	t.Parallel()

	p := newPeer(t, true)
	c := connect(t, newConfig(p.Addr().Port, 1, "", io.Discard))

	if err := c.Send([]byte("abc")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := c.Receive(); !errors.Is(err, ErrEchoMismatch) {
		t.Errorf("Receive() = %v, want ErrEchoMismatch", err)
	}
	if c.Verified() != 0 {
		t.Errorf("Verified() = %d after mismatch", c.Verified())
	}
}

func TestSend_TooLong(t *testing.T) {
	t.Parallel()

	p := newPeer(t, false)
	c := connect(t, newConfig(p.Addr().Port, 1, "", io.Discard))

	if err := c.Send(bytes.Repeat([]byte("x"), testSize+1)); err == nil {
		t.Error("Send() of an oversized payload should fail")
	}
	if c.Pending() != 0 {
		t.Errorf("oversized payload was queued")
	}
}

func TestSendQuit(t *testing.T) {
	t.Parallel()

	p := newPeer(t, false)
	c := connect(t, newConfig(p.Addr().Port, 2, "", io.Discard))

	if got := c.GetConnection().RemoteAddr().String(); got != p.Addr().String() {
		t.Errorf("connected to %s, want %s", got, p.Addr())
	}

	if err := c.SendQuit(); err != nil {
		t.Fatalf("SendQuit() error = %v", err)
	}
	if c.Pending() != 0 {
		t.Errorf("quit frame awaits an echo")
	}
	if err := c.AwaitClose(); err != nil {
		t.Errorf("AwaitClose() error = %v", err)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stdin    string
		want     string
		verified int
	}{
		{"lines", "one\ntwo\nthree\n", "one\ntwo\nthree\n", 3},
		{"no trailing newline", "last", "last\n", 1},
		{"quit stops input", "before\nquit\nafter\n", "before\n", 1},
		{"oversized line skipped", strings.Repeat("x", testSize+1) + "\nok\n", "ok\n", 1},
		{"empty", "", "", 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := newPeer(t, false)
			var stdout bytes.Buffer
			c := connect(t, newConfig(p.Addr().Port, 2, tc.stdin, &stdout))

			if err := c.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := stdout.String(); got != tc.want {
				t.Errorf("stdout = %q, want %q", got, tc.want)
			}
			if c.Verified() != tc.verified {
				t.Errorf("Verified() = %d, want %d", c.Verified(), tc.verified)
			}
		})
	}
}

func TestRun_Mismatch(t *testing.T) {
	t.Parallel()

	p := newPeer(t, true)
	c := connect(t, newConfig(p.Addr().Port, 1, "first\nsecond\n", io.Discard))

	if err := c.Run(); !errors.Is(err, ErrEchoMismatch) {
		t.Errorf("Run() = %v, want ErrEchoMismatch", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	p := newPeer(t, false)
	stdinR, stdinW := io.Pipe()
	defer stdinW.Close()

	cfg := newConfig(p.Addr().Port, 1, "", io.Discard)
	cfg.Deps.Stdin = func() io.Reader { return stdinR }

	ctx, cancel := context.WithCancel(context.Background())
	c := New(ctx, cfg)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	stdinW.Write([]byte("hi\n"))
	cancel()
	// a pipe cannot be cancelled, ending input releases the reader
	stdinW.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestConnect_Transcript(t *testing.T) {
	t.Parallel()

	p := newPeer(t, false)
	path := filepath.Join(t.TempDir(), "transcript.log")

	var stdout bytes.Buffer
	cfg := newConfig(p.Addr().Port, 1, "logged\n", &stdout)
	cfg.LogFile = path
	c := connect(t, cfg)

	if err := c.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	c.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading transcript: %v", err)
	}
	for _, want := range []string{`>> "logged`, `<< "logged`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("transcript %q does not contain %q", data, want)
		}
	}
}
