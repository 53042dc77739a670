package serve

import (
	"context"
	"testing"
	"time"

	"dominicbreuker/framecho/cmd/shared"
	"dominicbreuker/framecho/pkg/config"
)

func TestGetCommand(t *testing.T) {
	t.Parallel()

	cmd := GetCommand()
	if cmd.Name != "serve" {
		t.Errorf("command name = %q; want %q", cmd.Name, "serve")
	}
	if cmd.Action == nil {
		t.Fatal("command action should not be nil")
	}

	names := map[string]bool{}
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{shared.PortFlag, shared.MaxConnsFlag, shared.PollIntervalFlag, shared.RejectMessageFlag} {
		if !names[want] {
			t.Errorf("missing flag %q", want)
		}
	}
}

func TestServe_InvalidArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"zero max conns", []string{"serve", "--max-conns", "0"}},
		{"zero size", []string{"serve", "--size", "0"}},
		{"negative interval", []string{"serve", "--poll-interval=-1s"}},
		{"bad transport", []string{"serve", "udp://*:1"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if err := GetCommand().Run(context.Background(), tc.args); err == nil {
				t.Error("Run() should fail")
			}
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := &config.Server{
		Host:           "127.0.0.1",
		Port:           0,
		MessageSize:    40,
		MaxConnections: 2,
		PollInterval:   50 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}
