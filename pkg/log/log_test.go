package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestErrorMsg(t *testing.T) {
	// Capture stderr
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	ErrorMsg("test error: %s", "something")

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if !strings.Contains(output, "test error: something") {
		t.Errorf("ErrorMsg() output does not contain expected text: %q", output)
	}
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		verbose     bool
		wantVerbose bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := NewLoggerTo(&buf, tc.verbose)

			l.InfoMsg("info %d\n", 1)
			l.ErrorMsg("error %d\n", 2)
			l.VerboseMsg("verbose %d", 3)

			out := buf.String()
			if !strings.Contains(out, "[+] info 1") {
				t.Errorf("missing info line in %q", out)
			}
			if !strings.Contains(out, "[!] Error: error 2") {
				t.Errorf("missing error line in %q", out)
			}
			if got := strings.Contains(out, "[v] verbose 3"); got != tc.wantVerbose {
				t.Errorf("verbose line present = %v, want %v (output %q)", got, tc.wantVerbose, out)
			}
		})
	}
}

func TestLogger_Nil(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.InfoMsg("ignored")
	l.ErrorMsg("ignored")
	l.VerboseMsg("ignored")
	if l.Verbose() {
		t.Error("nil logger should not be verbose")
	}
}
