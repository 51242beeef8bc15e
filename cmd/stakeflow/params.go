package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/filecoin-project/go-stakeflow/flowctl"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

func newParamsCmd() *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "manages flow control params",
		Subcommands: []*cli.Command{
			{
				Name:  "gen",
				Usage: "writes the default params as JSON",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:  "out",
						Usage: "path of the file to write; defaults to stdout",
					},
				},
				Action: func(c *cli.Context) error {
					out := c.Path("out")
					if out == "" {
						return writeParams(c.App.Writer, flowctl.DefaultParams())
					}
					f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
					if err != nil {
						return xerrors.Errorf("opening params file for writing: %w", err)
					}
					if err := writeParams(f, flowctl.DefaultParams()); err != nil {
						_ = f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return xerrors.Errorf("closing file: %w", err)
					}
					return nil
				},
			},
			{
				Name:  "check",
				Usage: "validates the params in effect and prints them with their version",
				Action: func(c *cli.Context) error {
					params, err := loadParams(c)
					if err != nil {
						return err
					}
					version, err := params.Version()
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(c.App.Writer, "version: %s\n", version)
					return writeParams(c.App.Writer, params)
				},
			},
		},
	}
}

// loadParams reads the params file given by the global params flag, or
// returns the default params if none is given.
func loadParams(c *cli.Context) (flowctl.Params, error) {
	path := c.Path("params")
	if path == "" {
		return flowctl.DefaultParams(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return flowctl.Params{}, xerrors.Errorf("opening params file: %w", err)
	}
	defer func() { _ = f.Close() }()
	params, err := flowctl.LoadParams(f)
	if err != nil {
		return flowctl.Params{}, xerrors.Errorf("loading params from %s: %w", path, err)
	}
	return params, nil
}

func writeParams(w io.Writer, params flowctl.Params) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(params); err != nil {
		return xerrors.Errorf("encoding params: %w", err)
	}
	return nil
}
