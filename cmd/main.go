package main

import (
	"context"
	"os"

	"dominicbreuker/framecho/cmd/send"
	"dominicbreuker/framecho/cmd/serve"
	"dominicbreuker/framecho/cmd/version"
	"dominicbreuker/framecho/pkg/log"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "framecho",
		Usage: "fixed-size frame echo server and client",
		Commands: []*cli.Command{
			serve.GetCommand(),
			send.GetCommand(),
			version.GetCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
		os.Exit(1)
	}
}
