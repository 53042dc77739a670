package format

import (
	"testing"
)

func TestAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{"IPv4 address", "192.168.1.1", 8080, "192.168.1.1:8080"},
		{"hostname", "example.com", 443, "example.com:443"},
		{"IPv6 address", "::1", 8080, "[::1]:8080"},
		{"wildcard", "*", 5555, "0.0.0.0:5555"},
		{"empty host", "", 5555, "0.0.0.0:5555"},
		{"port zero", "127.0.0.1", 0, "127.0.0.1:0"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Addr(tc.host, tc.port); got != tc.want {
				t.Errorf("Addr(%q, %d) = %q, want %q", tc.host, tc.port, got, tc.want)
			}
		})
	}
}
