package client

import (
	"io"
	"os"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// input reads user lines. Reads from a file are cancellable where the
// platform supports it, so shutdown does not hang on a blocked stdin.
type input struct {
	r  io.Reader
	cr cancelreader.CancelReader
}

func newInput(r io.Reader) *input {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return &input{r: r}
	}
	return &input{r: r, cr: cr}
}

func (in *input) Read(p []byte) (int, error) {
	if in.cr != nil {
		return in.cr.Read(p)
	}
	return in.r.Read(p)
}

// Cancel interrupts a pending Read.
func (in *input) Cancel() {
	if in.cr != nil {
		in.cr.Cancel()
	}
}

func (in *input) Close() error {
	if in.cr != nil {
		return in.cr.Close()
	}
	return nil
}

// interactive reports whether the input is a terminal.
func (in *input) interactive() bool {
	f, ok := in.r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
