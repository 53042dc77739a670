// Package serve provides the serve command, which runs the frame echo
// server until interrupted.
package serve

import (
	"context"
	"fmt"

	"dominicbreuker/framecho/cmd/shared"
	"dominicbreuker/framecho/pkg/config"
	"dominicbreuker/framecho/pkg/log"
	"dominicbreuker/framecho/pkg/server"
	"dominicbreuker/framecho/pkg/socket"

	"github.com/urfave/cli/v3"
)

// GetCommand ...
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Echo fixed-size frames back to a bounded number of clients",
		Description: shared.GetBaseDescription(),
		ArgsUsage:   shared.GetArgsUsage(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			host, port, err := shared.Endpoint(cmd)
			if err != nil {
				return err
			}

			cfg := &config.Server{
				Host:           host,
				Port:           port,
				MessageSize:    int(cmd.Int(shared.SizeFlag)),
				MaxConnections: int(cmd.Int(shared.MaxConnsFlag)),
				PollInterval:   cmd.Duration(shared.PollIntervalFlag),
				RejectMessage:  cmd.String(shared.RejectMessageFlag),
				Verbose:        cmd.Bool(shared.VerboseFlag),
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

func run(ctx context.Context, cfg *config.Server) error {
	if err := socket.Init(); err != nil {
		return fmt.Errorf("socket.Init(): %w", err)
	}
	defer socket.Teardown()

	s, err := server.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Listen(); err != nil {
		return fmt.Errorf("listening: %w", err)
	}

	if err := s.Serve(ctx); err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	st := s.Stats()
	cfg.Logger.InfoMsg("Shut down after %d connections (%d rejected), %d frames echoed\n",
		st.Accepted, st.Rejected, st.FramesEchoed)
	return nil
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetServeFlags()...)

	return flags
}
