package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %+v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stakeflow",
		Usage: "stake-weighted QUIC flow control calculator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level of all stakeflow subsystems",
			},
			&cli.PathFlag{
				Name:    "params",
				Usage:   "path to a JSON params file; absent fields keep their defaults",
				EnvVars: []string{"STAKEFLOW_PARAMS"},
			},
		},
		Before: func(c *cli.Context) error {
			return logging.SetLogLevelRegex("stakeflow.*", c.String("log-level"))
		},
		Commands: []*cli.Command{
			newComputeCmd(),
			newParamsCmd(),
			newToolsCmd(),
		},
	}
}
