// Package send provides the send command, which reads lines from stdin,
// sends each as a frame and prints the verified echoes.
package send

import (
	"context"
	"fmt"

	"dominicbreuker/framecho/cmd/shared"
	"dominicbreuker/framecho/pkg/client"
	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/log"

	"github.com/urfave/cli/v3"
)

// GetCommand ...
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "send",
		Usage:       "Send lines of input as frames and verify the echoes",
		Description: shared.GetBaseDescription(),
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			host, port, err := shared.Endpoint(cmd)
			if err != nil {
				return err
			}

			cfg := &config.Client{
				Host:        host,
				Port:        port,
				MessageSize: int(cmd.Int(shared.SizeFlag)),
				Chunks:      int(cmd.Int(shared.ChunksFlag)),
				Timeout:     cmd.Duration(shared.TimeoutFlag),
				LogFile:     cmd.String(shared.LogFileFlag),
				Verbose:     cmd.Bool(shared.VerboseFlag),
			}
			cfg.Logger = log.NewLogger(cfg.Verbose)

			if errors := config.Validate(cfg); len(errors) > 0 {
				log.ErrorMsg("Argument validation errors:\n")
				for _, err := range errors {
					log.ErrorMsg(" - %s\n", err)
				}
				return fmt.Errorf("exiting")
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			shared.SetupSignalHandling(cancel)

			return run(ctx, cfg)
		},
		Flags: getFlags(),
	}
}

func run(ctx context.Context, cfg *config.Client) error {
	c := client.New(ctx, cfg)
	if err := c.Connect(); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer c.Close()

	if err := c.Run(); err != nil {
		return fmt.Errorf("running: %w", err)
	}

	cfg.Logger.InfoMsg("%d frames echoed correctly\n", c.Verified())
	return nil
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetSendFlags()...)

	return flags
}
