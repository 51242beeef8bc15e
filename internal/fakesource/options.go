package fakesource

import (
	"maps"

	"github.com/filecoin-project/go-stakeflow/stake"
)

type options struct {
	stakes map[stake.ID]uint64
	evolve StakeMutator
	err    error
	gate   <-chan struct{}
}

type Option func(*options)

// StakeMutator derives the stakes returned by the n-th call, starting at 1,
// from the stakes returned by the previous call.
type StakeMutator func(call int, stakes map[stake.ID]uint64) map[stake.ID]uint64

func newOptions(o ...Option) *options {
	opts := &options{}
	for _, apply := range o {
		apply(opts)
	}
	return opts
}

func WithInitialStakes(stakes map[stake.ID]uint64) Option {
	return func(o *options) {
		o.stakes = maps.Clone(stakes)
	}
}

func WithEvolvingStakes(fn StakeMutator) Option {
	return func(o *options) {
		o.evolve = fn
	}
}

// WithError makes every call fail with err.
func WithError(err error) Option {
	return func(o *options) {
		o.err = err
	}
}

// WithGate blocks every call until a value is received from gate or the
// call context is done.
func WithGate(gate <-chan struct{}) Option {
	return func(o *options) {
		o.gate = gate
	}
}
