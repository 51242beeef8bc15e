package stakeflow

import (
	"context"

	"github.com/filecoin-project/go-stakeflow/internal/measurements"
	"github.com/filecoin-project/go-stakeflow/stake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	attrPeerStaked   = attribute.String("peer", "staked")
	attrPeerUnstaked = attribute.String("peer", "unstaked")
	attrPeerUnknown  = attribute.String("peer", "unknown")
)

var meter = otel.Meter("stakeflow")
var metrics = struct {
	evaluations metric.Int64Counter
}{
	evaluations: measurements.Must(meter.Int64Counter("stakeflow_evaluations",
		metric.WithDescription("Number of participant evaluations labelled by peer type and status."))),
}

func recordEvaluation(ctx context.Context, evaluation *Evaluation, err error) {
	peer := attrPeerUnknown
	if evaluation != nil {
		peer = peerAttribute(evaluation.Allocation.Peer)
	}
	metrics.evaluations.Add(ctx, 1, metric.WithAttributes(peer, measurements.Status(ctx, err)))
}

func peerAttribute(p stake.PeerType) attribute.KeyValue {
	if p.IsStaked() {
		return attrPeerStaked
	}
	return attrPeerUnstaked
}
