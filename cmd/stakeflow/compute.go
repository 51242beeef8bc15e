package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/filecoin-project/go-stakeflow"
	"github.com/filecoin-project/go-stakeflow/flowctl"
	"github.com/filecoin-project/go-stakeflow/internal/solana"
	"github.com/filecoin-project/go-stakeflow/source"
	"github.com/filecoin-project/go-stakeflow/stake"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

func newComputeCmd() *cli.Command {
	return &cli.Command{
		Name:  "compute",
		Usage: "computes the uni stream and receive window allocation of validators",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "rpc-url",
				Usage:    "Solana JSON-RPC endpoint to read vote accounts from",
				EnvVars:  []string{"STAKEFLOW_RPC_URL"},
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "validator-key",
				Usage:    "base58 node identity of a validator; may be repeated",
				EnvVars:  []string{"STAKEFLOW_VALIDATOR_KEY"},
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "override",
				Usage: "replace the stake of a node, as <key>=<stake>; may be repeated",
			},
			&cli.StringFlag{
				Name:  "commitment",
				Usage: "commitment level of the vote accounts: processed, confirmed or finalized",
				Value: string(source.CommitmentFinalized),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "timeout of the vote accounts request",
				Value: 30 * time.Second,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "maximum number of validators evaluated at once",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "quic",
				Usage: "also print the resulting QUIC connection limits",
			},
		},
		Action: func(c *cli.Context) error {
			params, err := loadParams(c)
			if err != nil {
				return xerrors.Errorf("loading params: %w", err)
			}
			commitment, err := source.ParseCommitment(c.String("commitment"))
			if err != nil {
				return err
			}
			ids, err := parseIDs(c.StringSlice("validator-key"))
			if err != nil {
				return err
			}
			overrides, err := stake.ParseOverrides(c.StringSlice("override"))
			if err != nil {
				return xerrors.Errorf("parsing overrides: %w", err)
			}

			client := solana.NewClient(c.String("rpc-url"), &http.Client{Timeout: c.Duration("timeout")})
			sf, err := stakeflow.New(client,
				stakeflow.WithParams(params),
				stakeflow.WithCommitment(commitment),
				stakeflow.WithOverrides(overrides),
				stakeflow.WithConcurrency(c.Int("concurrency")))
			if err != nil {
				return xerrors.Errorf("creating stakeflow: %w", err)
			}

			evaluations, err := sf.EvaluateAll(c.Context, ids)
			if err != nil {
				return xerrors.Errorf("computing allocations: %w", err)
			}
			printEvaluations(c.App.Writer, params, evaluations, c.Bool("quic"))
			return nil
		},
	}
}

func parseIDs(keys []string) ([]stake.ID, error) {
	ids := make([]stake.ID, 0, len(keys))
	for _, key := range keys {
		id, err := stake.ParseID(key)
		if err != nil {
			return nil, xerrors.Errorf("parsing validator key: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printStats(w io.Writer, snapshot *stake.Snapshot, stats stake.Stats) {
	_, _ = fmt.Fprintf(w, "Network stats: total stake, min_stake, max_stake : %s\n", stats)
	_, _ = fmt.Fprintf(w, "Snapshot: %d participants, digest %x\n", snapshot.Len(), snapshot.Digest())
}

func printEvaluations(w io.Writer, params flowctl.Params, evaluations []*stakeflow.Evaluation, withQUIC bool) {
	var digest string
	for _, evaluation := range evaluations {
		if d := fmt.Sprintf("%x", evaluation.Snapshot.Digest()); d != digest {
			printStats(w, evaluation.Snapshot, evaluation.Stats)
			digest = d
		}
		allocation := evaluation.Allocation
		_, _ = fmt.Fprintf(w, "%s: %s\n", evaluation.ID, allocation.Peer)
		_, _ = fmt.Fprintf(w, "  max uni streams: %d\n", allocation.Streams)
		_, _ = fmt.Fprintf(w, "  receive_window: %d bytes, %d max sized transactions\n",
			allocation.ReceiveWindow, allocation.MaxSizedPackets(params))
		if withQUIC {
			cfg := allocation.QUICConfig(nil)
			_, _ = fmt.Fprintf(w, "  quic: MaxIncomingUniStreams=%d InitialConnectionReceiveWindow=%d MaxConnectionReceiveWindow=%d\n",
				cfg.MaxIncomingUniStreams, cfg.InitialConnectionReceiveWindow, cfg.MaxConnectionReceiveWindow)
		}
	}
}
