// Package log provides colored console logging and a transcript wrapper for
// client connections.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var faint = color.New(color.Faint).FprintfFunc()

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// Logger writes leveled messages. Verbose messages are dropped unless the
// logger was created with verbose enabled. A nil *Logger discards everything.
type Logger struct {
	out     io.Writer
	verbose bool
}

// NewLogger returns a Logger writing to stderr.
func NewLogger(verbose bool) *Logger {
	return &Logger{out: os.Stderr, verbose: verbose}
}

// NewLoggerTo returns a Logger writing to w.
func NewLoggerTo(w io.Writer, verbose bool) *Logger {
	return &Logger{out: w, verbose: verbose}
}

// Verbose reports whether verbose messages are printed.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

// ErrorMsg prints an error message in red.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	red(l.out, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message in blue.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	blue(l.out, "[+] "+format, a...)
}

// VerboseMsg prints a faint debug line if verbose logging is enabled.
// A trailing newline is added.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	if !l.Verbose() {
		return
	}
	faint(l.out, "[v] %s\n", fmt.Sprintf(format, a...))
}
