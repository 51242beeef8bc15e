package solana

import (
	"context"
	"time"

	"github.com/filecoin-project/go-stakeflow/internal/measurements"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("stakeflow/solana")
var metrics = struct {
	rpcLatency metric.Float64Histogram
}{
	rpcLatency: measurements.Must(meter.Float64Histogram("stakeflow_rpc_latency",
		metric.WithDescription("The JSON-RPC request latency labelled by method and status."),
		metric.WithUnit("s"))),
}

func recordRpcLatency(ctx context.Context, method string, latency time.Duration, err error) {
	metrics.rpcLatency.Record(ctx, latency.Seconds(),
		metric.WithAttributes(attribute.String("method", method), measurements.Status(ctx, err)))
}
