package stakeflow

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/filecoin-project/go-stakeflow/flowctl"
	"github.com/filecoin-project/go-stakeflow/source"
	"github.com/filecoin-project/go-stakeflow/stake"
)

var (
	defaultCommitment  = source.CommitmentFinalized
	defaultSnapshotTTL = time.Minute
	defaultConcurrency = 4
)

// Option represents a configurable parameter.
type Option func(*options) error

type options struct {
	params      flowctl.Params
	commitment  source.Commitment
	overrides   stake.Overrides
	snapshotTTL time.Duration
	concurrency int
}

func newOptions(o ...Option) (*options, error) {
	opts := &options{
		params:      flowctl.DefaultParams(),
		commitment:  defaultCommitment,
		snapshotTTL: defaultSnapshotTTL,
		concurrency: defaultConcurrency,
	}
	for _, apply := range o {
		if err := apply(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// WithParams sets the flow control params. Defaults to flowctl.DefaultParams
// if unspecified. The params must be valid.
func WithParams(p flowctl.Params) Option {
	return func(o *options) error {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid params: %w", err)
		}
		o.params = p
		return nil
	}
}

// WithCommitment sets the commitment level at which stake snapshots are read.
// Defaults to finalized.
func WithCommitment(c source.Commitment) Option {
	return func(o *options) error {
		if _, err := source.ParseCommitment(string(c)); err != nil {
			return err
		}
		o.commitment = c
		return nil
	}
}

// WithOverrides replaces the snapshot stake of the given participants in
// every evaluation.
func WithOverrides(overrides stake.Overrides) Option {
	return func(o *options) error {
		o.overrides = maps.Clone(overrides)
		return nil
	}
}

// WithSnapshotTTL sets how long a fetched snapshot is reused. Defaults to one
// minute. Zero reuses a snapshot forever.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(o *options) error {
		if ttl < 0 {
			return errors.New("snapshot ttl cannot be less than zero")
		}
		o.snapshotTTL = ttl
		return nil
	}
}

// WithConcurrency sets the maximum number of participants evaluated at once
// by EvaluateAll. Defaults to 4.
func WithConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.New("concurrency must be at least one")
		}
		o.concurrency = n
		return nil
	}
}
