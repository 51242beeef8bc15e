package flowctl

import (
	"context"

	"github.com/filecoin-project/go-stakeflow/internal/measurements"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var log = logging.Logger("stakeflow/flowctl")

const attrReasonKey = "reason"

var (
	attrReasonZeroTotal         = attribute.String(attrReasonKey, "zero_total")
	attrReasonStakeExceedsTotal = attribute.String(attrReasonKey, "stake_exceeds_total")
	attrReasonStakeExceedsMax   = attribute.String(attrReasonKey, "stake_exceeds_max")
	attrReasonDegenerateRange   = attribute.String(attrReasonKey, "degenerate_range")
)

var meter = otel.Meter("stakeflow/flowctl")
var metrics = struct {
	degenerateInputs metric.Int64Counter
}{
	degenerateInputs: measurements.Must(meter.Int64Counter("stakeflow_degenerate_inputs",
		metric.WithDescription("Number of allocations that fell back to a default due to inconsistent stake inputs, labelled by reason."))),
}

func recordDegenerateInput(reason attribute.KeyValue) {
	metrics.degenerateInputs.Add(context.Background(), 1, metric.WithAttributes(reason))
}
