package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfgs []ValidatableConfig
		// leading flag name of each error, in order
		want []string
	}{
		{
			name: "no configs",
		},
		{
			name: "valid server and client",
			cfgs: []ValidatableConfig{validServer(), validClient()},
		},
		{
			name: "server errors follow field order",
			cfgs: []ValidatableConfig{
				&Server{Port: -1, MessageSize: 0, MaxConnections: 0, PollInterval: 0},
			},
			want: []string{"'--port'", "'--size'", "'--max-conns'", "'--poll-interval'"},
		},
		{
			name: "server before client",
			cfgs: []ValidatableConfig{
				&Server{MessageSize: 4, MaxConnections: 0, PollInterval: DefaultPollInterval},
				&Client{Host: "", Port: 1, MessageSize: 4, Chunks: 5},
			},
			want: []string{"'--max-conns'", "'--host'", "'--chunks'"},
		},
		{
			name: "client before server",
			cfgs: []ValidatableConfig{
				&Client{Host: "localhost", Port: 0, MessageSize: 4, Chunks: 1, Timeout: -1},
				&Server{MessageSize: 4, MaxConnections: 1, PollInterval: -1},
			},
			want: []string{"'--port'", "'--timeout'", "'--poll-interval'"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			errs := Validate(tc.cfgs...)
			if len(errs) != len(tc.want) {
				t.Fatalf("Validate() returned %d errors %v, want %d", len(errs), errs, len(tc.want))
			}
			for i, err := range errs {
				if !strings.HasPrefix(err.Error(), tc.want[i]) {
					t.Errorf("error %d = %q, want it to start with %s", i, err, tc.want[i])
				}
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		port      int
		listening bool
		wantErr   bool
	}{
		{"dial port 1", 1, false, false},
		{"dial port 65535", 65535, false, false},
		{"dial port 0", 0, false, true},
		{"listen port 0", 0, true, false},
		{"listen port 5555", 5555, true, false},
		{"negative", -1, true, true},
		{"too high", 65536, true, true},
		{"way too high", 100000, false, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validatePort(tc.port, tc.listening)
			if (err != nil) != tc.wantErr {
				t.Errorf("validatePort(%d, %v) error = %v, wantErr %v", tc.port, tc.listening, err, tc.wantErr)
			}
		})
	}
}
