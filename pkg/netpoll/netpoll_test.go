package netpoll

import (
	"testing"
	"time"
)

func TestInterest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      Interest
		want    Interest
		has     bool
		wantStr string
	}{
		{0, Read, false, "none"},
		{Read, Read, true, "r"},
		{Write, Read, false, "w"},
		{Read | Write, Write, true, "rw"},
		{Read | Write, Read | Write, true, "rw"},
		{Read, 0, false, "r"},
	}

	for _, tc := range tests {
		if got := tc.in.Has(tc.want); got != tc.has {
			t.Errorf("%v.Has(%v) = %v, want %v", tc.in, tc.want, got, tc.has)
		}
		if got := tc.in.String(); got != tc.wantStr {
			t.Errorf("String() = %q, want %q", got, tc.wantStr)
		}
	}
}

func TestTimeoutMillis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want int
	}{
		{-1, -1},
		{0, 0},
		{time.Microsecond, 1},
		{time.Millisecond, 1},
		{2500 * time.Millisecond, 2500},
	}

	for _, tc := range tests {
		if got := timeoutMillis(tc.in); got != tc.want {
			t.Errorf("timeoutMillis(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
