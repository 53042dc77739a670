// Package client implements the framecho client: it turns lines of input
// into fixed-size frames, sends them and verifies every echo.
package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/frame"
	"dominicbreuker/framecho/pkg/log"

	"github.com/eapache/queue"
	"github.com/muesli/cancelreader"
)

// ErrEchoMismatch is returned when the server echoes something other than
// the frame that was sent.
var ErrEchoMismatch = errors.New("echo does not match frame sent")

// ErrNothingPending is returned by Receive when no frame awaits its echo.
var ErrNothingPending = errors.New("no frame awaiting echo")

// chunkGap separates the writes of a split frame so they reach the server
// as separate segments.
const chunkGap = 5 * time.Millisecond

// Client ...
type Client struct {
	ctx context.Context
	cfg *config.Client

	conn      net.Conn
	closeOnce sync.Once

	mu        sync.Mutex
	cond      *sync.Cond
	pending   *queue.Queue // frames sent but not yet echoed, oldest first
	sending   bool
	receiving bool
	quitSent  bool
	verified  int
}

// New ...
func New(ctx context.Context, cfg *config.Client) *Client {
	c := &Client{
		ctx:     ctx,
		cfg:     cfg,
		pending: queue.New(),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Connect dials the server. If a log file is configured, all traffic is
// recorded to it.
func (c *Client) Connect() error {
	addr := c.cfg.Addr()
	c.cfg.Logger.InfoMsg("Connecting to %s\n", addr)

	ctx := c.ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	conn, err := config.GetTCPDialerFunc(c.cfg.Deps)(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial(tcp, %s): %w", addr, err)
	}

	if c.cfg.LogFile != "" {
		logged, err := log.NewLoggedConn(conn, c.cfg.LogFile)
		if err != nil {
			conn.Close()
			return fmt.Errorf("enabling logging to %s: %w", c.cfg.LogFile, err)
		}
		conn = logged
	}

	c.conn = conn
	return nil
}

// GetConnection ...
func (c *Client) GetConnection() net.Conn {
	return c.conn
}

// Close closes the connection. Further calls do nothing.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.conn == nil {
			return
		}
		c.cfg.Logger.InfoMsg("Connection to %s closed\n", c.conn.RemoteAddr())
		err = c.conn.Close()
	})
	return err
}

// Send pads payload into a frame and writes it, split into the configured
// number of chunks. Non-quit frames are queued until their echo arrives.
func (c *Client) Send(payload []byte) error {
	f, err := frame.Pad(payload, c.cfg.MessageSize)
	if err != nil {
		return err
	}

	quit := frame.IsQuit(f)
	if !quit {
		// queued before writing so the echo can never overtake it
		c.mu.Lock()
		c.pending.Add(f)
		c.mu.Unlock()
		c.cond.Broadcast()
	}

	for i, chunk := range frame.Split(f, c.cfg.Chunks) {
		if i > 0 {
			time.Sleep(chunkGap)
		}
		if _, err := c.conn.Write(chunk); err != nil {
			return fmt.Errorf("sending frame: %w", err)
		}
	}
	c.cfg.Logger.VerboseMsg("sent %q in %d writes", f, c.cfg.Chunks)

	if quit {
		c.mu.Lock()
		c.quitSent = true
		c.mu.Unlock()
		c.cond.Broadcast()
	}
	return nil
}

// SendQuit asks the server to close the connection.
func (c *Client) SendQuit() error {
	return c.Send(frame.Quit(c.cfg.MessageSize))
}

// Pending returns the number of frames awaiting their echo.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Length()
}

// Verified returns the number of echoes that matched.
func (c *Client) Verified() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verified
}

// Receive reads the echo of the oldest outstanding frame and checks it.
func (c *Client) Receive() ([]byte, error) {
	c.mu.Lock()
	if c.pending.Length() == 0 {
		c.mu.Unlock()
		return nil, ErrNothingPending
	}
	want := c.pending.Peek().([]byte)
	c.mu.Unlock()

	c.setReadDeadline()
	got := make([]byte, len(want))
	if _, err := io.ReadFull(c.conn, got); err != nil {
		return nil, fmt.Errorf("reading echo: %w", err)
	}

	c.mu.Lock()
	c.pending.Remove()
	c.mu.Unlock()
	c.cond.Broadcast()

	if !bytes.Equal(got, want) {
		return got, fmt.Errorf("%w: sent %q, received %q", ErrEchoMismatch, want, got)
	}

	c.mu.Lock()
	c.verified++
	c.mu.Unlock()
	return got, nil
}

// AwaitClose waits for the server to close the connection after a quit
// frame.
func (c *Client) AwaitClose() error {
	c.setReadDeadline()

	var b [64]byte
	n, err := c.conn.Read(b[:])
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case n > 0:
		return fmt.Errorf("unexpected data after quit: %q", b[:n])
	default:
		return fmt.Errorf("waiting for server to close: %w", err)
	}
}

func (c *Client) setReadDeadline() {
	if c.cfg.Timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
	}
}

// Run sends every input line as a frame and prints each verified echo. It
// returns once input is exhausted and every echo arrived, once the server
// closed the connection after a quit line, or when the context is done.
func (c *Client) Run() error {
	in := newInput(config.GetStdinFunc(c.cfg.Deps)())
	defer in.Close()
	out := config.GetStdoutFunc(c.cfg.Deps)()

	ctx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		in.Cancel()
		// unblocks a pending echo read
		c.conn.SetReadDeadline(time.Now())
	}()

	c.mu.Lock()
	c.sending = true
	c.receiving = true
	c.mu.Unlock()

	recvErr := make(chan error, 1)
	go func() {
		err := c.receiveLoop(out)
		if err != nil {
			cancel()
		}

		c.mu.Lock()
		c.receiving = false
		c.mu.Unlock()
		c.cond.Broadcast()

		recvErr <- err
	}()

	sendErr := c.sendLoop(in, out)
	if sendErr != nil {
		cancel()
	}

	c.mu.Lock()
	c.sending = false
	c.mu.Unlock()
	c.cond.Broadcast()

	err := <-recvErr
	if c.ctx.Err() != nil {
		return nil
	}
	if sendErr != nil {
		return sendErr
	}
	return err
}

func (c *Client) sendLoop(in *input, out io.Writer) error {
	prompt := func() {}
	if in.interactive() {
		prompt = func() { fmt.Fprint(out, "> ") }
	}

	scanner := bufio.NewScanner(in)
	for prompt(); scanner.Scan(); prompt() {
		line := scanner.Bytes()
		if len(line) > c.cfg.MessageSize {
			c.cfg.Logger.ErrorMsg("line of %d bytes does not fit into a %d byte frame, skipped\n", len(line), c.cfg.MessageSize)
			continue
		}

		if !frame.IsQuit(line) {
			if err := c.Send(line); err != nil {
				return err
			}
			continue
		}

		// the server drops unsent echoes once it reads a quit frame
		if !c.awaitDrained() {
			return nil
		}
		return c.Send(line)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, cancelreader.ErrCanceled) {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (c *Client) receiveLoop(out io.Writer) error {
	for c.awaitPending() {
		got, err := c.Receive()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", bytes.TrimRight(got, " "))
	}

	c.mu.Lock()
	quit := c.quitSent
	c.mu.Unlock()
	if quit {
		return c.AwaitClose()
	}
	return nil
}

// awaitDrained blocks until every sent frame was echoed. It returns false
// if the receiver stopped first.
func (c *Client) awaitDrained() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.pending.Length() > 0 && c.receiving {
		c.cond.Wait()
	}
	return c.pending.Length() == 0 && c.receiving
}

// awaitPending blocks until a frame awaits its echo or sending finished.
// It reports whether there is an echo to read.
func (c *Client) awaitPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.pending.Length() == 0 && c.sending {
		c.cond.Wait()
	}
	return c.pending.Length() > 0
}
