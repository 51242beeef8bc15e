package fakesource

import (
	"context"
	"maps"
	"sync"

	"github.com/filecoin-project/go-stakeflow/source"
	"github.com/filecoin-project/go-stakeflow/stake"
)

var _ source.Backend = (*Source)(nil)

// Source is an in-memory source.Backend for tests.
type Source struct {
	*options

	lk      sync.Mutex
	calls   int
	byLevel map[source.Commitment]int
}

func New(o ...Option) *Source {
	return &Source{
		options: newOptions(o...),
		byLevel: make(map[source.Commitment]int),
	}
}

func (s *Source) GetStakes(ctx context.Context, commitment source.Commitment) (*stake.Snapshot, error) {
	if s.gate != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.gate:
		}
	}

	s.lk.Lock()
	defer s.lk.Unlock()
	s.calls++
	s.byLevel[commitment]++
	if s.err != nil {
		return nil, s.err
	}
	if s.evolve != nil {
		s.stakes = s.evolve(s.calls, maps.Clone(s.stakes))
	}
	return stake.NewSnapshot(s.stakes), nil
}

// Calls returns the number of GetStakes calls so far, for the given
// commitments or for all of them if none are given.
func (s *Source) Calls(commitments ...source.Commitment) int {
	s.lk.Lock()
	defer s.lk.Unlock()
	if len(commitments) == 0 {
		return s.calls
	}
	var n int
	for _, c := range commitments {
		n += s.byLevel[c]
	}
	return n
}
