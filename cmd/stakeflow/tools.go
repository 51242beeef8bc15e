package main

import (
	"fmt"

	"github.com/filecoin-project/go-stakeflow/stake"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

func newToolsCmd() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "various tools for stake flow control",
		Subcommands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "computes the stats of a JSON stake snapshot read from stdin",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "override",
						Usage: "replace the stake of a node, as <key>=<stake>; may be repeated",
					},
				},
				Action: func(c *cli.Context) error {
					snapshot, err := stake.DecodeSnapshot(c.App.Reader)
					if err != nil {
						return xerrors.Errorf("reading snapshot: %w", err)
					}
					overrides, err := stake.ParseOverrides(c.StringSlice("override"))
					if err != nil {
						return xerrors.Errorf("parsing overrides: %w", err)
					}
					printStats(c.App.Writer, snapshot, stake.ComputeStats(snapshot, overrides))
					return nil
				},
			},
			{
				Name:  "allocate",
				Usage: "computes the allocation of a peer from given stake stats",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "total-stake", Usage: "total stake of the network"},
					&cli.Uint64Flag{Name: "min-stake", Usage: "minimum positive stake of the network"},
					&cli.Uint64Flag{Name: "max-stake", Usage: "maximum stake of the network"},
					&cli.Uint64Flag{Name: "stake", Usage: "stake of the peer"},
					&cli.BoolFlag{Name: "unstaked", Usage: "allocate for an unstaked peer, ignoring --stake"},
				},
				Action: func(c *cli.Context) error {
					params, err := loadParams(c)
					if err != nil {
						return err
					}
					peer := stake.Staked(c.Uint64("stake"))
					if c.Bool("unstaked") {
						peer = stake.Unstaked()
					}
					stats := stake.Stats{
						Total: c.Uint64("total-stake"),
						Min:   c.Uint64("min-stake"),
						Max:   c.Uint64("max-stake"),
					}
					allocation, err := params.Allocate(stats, peer)
					if err != nil {
						return xerrors.Errorf("allocating: %w", err)
					}
					_, _ = fmt.Fprintf(c.App.Writer, "peer: %s\n", allocation.Peer)
					_, _ = fmt.Fprintf(c.App.Writer, "max uni streams: %d\n", allocation.Streams)
					_, _ = fmt.Fprintf(c.App.Writer, "receive_window: %d bytes, %d max sized transactions\n",
						allocation.ReceiveWindow, allocation.MaxSizedPackets(params))
					return nil
				},
			},
		},
	}
}
