// Package shared provides common CLI flag definitions and utility functions
// used across framecho's command-line interface.
package shared

import (
	"strings"

	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/frame"

	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// HostFlag is the name of the flag to specify the host to bind or dial.
const HostFlag = "host"

// PortFlag is the name of the flag to specify the TCP port.
const PortFlag = "port"

// SizeFlag is the name of the flag to specify the frame size in bytes.
const SizeFlag = "size"

// VerboseFlag is the name of the flag to enable verbose logging.
const VerboseFlag = "verbose"

// GetBaseDescription returns the description of the optional transport
// argument shared by all commands.
func GetBaseDescription() string {
	return strings.Join([]string{
		"Optionally specify the endpoint as a transport like this: tcp://127.0.0.1:5555",
		"It overrides --host and --port. Omit the host or use * to bind to all interfaces.",
	}, "\n")
}

// GetArgsUsage returns the arguments usage string for CLI commands.
func GetArgsUsage() string {
	return "[transport]"
}

// GetCommonFlags returns the CLI flags used by both serve and send.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     HostFlag,
			Usage:    "Host to listen on or connect to",
			Category: categoryCommon,
			Value:    config.DefaultHost,
			Required: false,
		},
		&cli.IntFlag{
			Name:     PortFlag,
			Aliases:  []string{"p"},
			Usage:    "TCP port",
			Category: categoryCommon,
			Value:    config.DefaultPort,
			Required: false,
		},
		&cli.IntFlag{
			Name:     SizeFlag,
			Usage:    "Frame size in bytes",
			Category: categoryCommon,
			Value:    frame.DefaultSize,
			Required: false,
		},
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
	}
}

const categoryServe = "serve"

// MaxConnsFlag is the name of the flag to limit concurrent clients.
const MaxConnsFlag = "max-conns"

// PollIntervalFlag is the name of the flag to bound a single readiness wait.
const PollIntervalFlag = "poll-interval"

// RejectMessageFlag is the name of the flag to specify what over-capacity
// clients receive before being disconnected.
const RejectMessageFlag = "reject-message"

// GetServeFlags returns the CLI flags specific to serve.
func GetServeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     MaxConnsFlag,
			Aliases:  []string{"m"},
			Usage:    "Maximum number of clients served at once",
			Category: categoryServe,
			Value:    config.DefaultMaxConnections,
			Required: false,
		},
		&cli.DurationFlag{
			Name:     PollIntervalFlag,
			Usage:    "Upper bound of a single readiness wait",
			Category: categoryServe,
			Value:    config.DefaultPollInterval,
			Required: false,
		},
		&cli.StringFlag{
			Name:     RejectMessageFlag,
			Usage:    "Message sent to clients turned away because the server is full, empty to close silently",
			Category: categoryServe,
			Value:    "",
			Required: false,
		},
	}
}

const categorySend = "send"

// ChunksFlag is the name of the flag to split every frame into several writes.
const ChunksFlag = "chunks"

// TimeoutFlag is the name of the flag to bound dialing and waiting for echoes.
const TimeoutFlag = "timeout"

// LogFileFlag is the name of the flag to specify a transcript file.
const LogFileFlag = "log"

// GetSendFlags returns the CLI flags specific to send.
func GetSendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     ChunksFlag,
			Aliases:  []string{"c"},
			Usage:    "Number of writes each frame is split into",
			Category: categorySend,
			Value:    1,
			Required: false,
		},
		&cli.DurationFlag{
			Name:     TimeoutFlag,
			Aliases:  []string{"t"},
			Usage:    "Timeout for connecting and for each echo, 0 to wait forever",
			Category: categorySend,
			Value:    config.DefaultTimeout,
			Required: false,
		},
		&cli.StringFlag{
			Name:     LogFileFlag,
			Aliases:  []string{"l"},
			Usage:    "Log file",
			Category: categorySend,
			Value:    "",
			Required: false,
		},
	}
}

// Endpoint returns host and port from the flags, overridden by the transport
// argument if one was given.
func Endpoint(cmd *cli.Command) (host string, port int, err error) {
	host, port = cmd.String(HostFlag), int(cmd.Int(PortFlag))

	if cmd.Args().Len() == 0 {
		return host, port, nil
	}
	return ParseTransport(cmd.Args().First())
}
