package stakeflow

import (
	"context"
	"fmt"

	"github.com/filecoin-project/go-stakeflow/flowctl"
	"github.com/filecoin-project/go-stakeflow/source"
	"github.com/filecoin-project/go-stakeflow/stake"
	"golang.org/x/sync/errgroup"
)

// Stakeflow derives the flow control allocation of participants from stake
// snapshots served by a backend.
type Stakeflow struct {
	*options
	backend *source.CachingBackend
}

// Evaluation is the allocation of a single participant, together with the
// snapshot and stats it was derived from.
type Evaluation struct {
	ID         stake.ID
	Snapshot   *stake.Snapshot
	Stats      stake.Stats
	Allocation flowctl.Allocation
}

// New creates a Stakeflow reading snapshots from backend. Snapshots are
// cached for the configured TTL, so that participants evaluated together see
// the same snapshot.
func New(backend source.Backend, o ...Option) (*Stakeflow, error) {
	opts, err := newOptions(o...)
	if err != nil {
		return nil, err
	}
	return &Stakeflow{
		options: opts,
		backend: source.NewCachingBackend(backend, 1, opts.snapshotTTL),
	}, nil
}

func (s *Stakeflow) Params() flowctl.Params { return s.params }

// Evaluate computes the allocation of the given participant. Stats and the
// participant's peer type always come from the same snapshot.
func (s *Stakeflow) Evaluate(ctx context.Context, id stake.ID) (_ *Evaluation, _err error) {
	var evaluation *Evaluation
	defer func() { recordEvaluation(ctx, evaluation, _err) }()

	snapshot, err := s.backend.GetStakes(ctx, s.commitment)
	if err != nil {
		return nil, fmt.Errorf("fetching stake snapshot: %w", err)
	}
	stats := stake.ComputeStats(snapshot, s.overrides)
	peer, err := stake.Classify(snapshot, s.overrides, id)
	if err != nil {
		return nil, err
	}
	allocation, err := s.params.Allocate(stats, peer)
	if err != nil {
		return nil, err
	}
	log.Debugw("evaluated participant", "id", id, "peer", peer, "stats", stats,
		"streams", allocation.Streams, "receiveWindow", allocation.ReceiveWindow)
	evaluation = &Evaluation{
		ID:         id,
		Snapshot:   snapshot,
		Stats:      stats,
		Allocation: allocation,
	}
	return evaluation, nil
}

// EvaluateAll evaluates every given participant concurrently, returning the
// evaluations in the order of ids. It fails if any evaluation fails.
func (s *Stakeflow) EvaluateAll(ctx context.Context, ids []stake.ID) ([]*Evaluation, error) {
	evaluations := make([]*Evaluation, len(ids))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for i, id := range ids {
		eg.Go(func() error {
			evaluation, err := s.Evaluate(ctx, id)
			if err != nil {
				return fmt.Errorf("evaluating %s: %w", id, err)
			}
			evaluations[i] = evaluation
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// Refresh drops cached snapshots so that the next evaluation fetches anew.
func (s *Stakeflow) Refresh() {
	s.backend.Invalidate()
}
